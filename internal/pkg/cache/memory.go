package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cast"
)

// Memory is an in-process Cache for tests and single-instance setups
// without redis. Expired entries are dropped on read.
type Memory struct {
	mu          sync.Mutex
	items       map[string]memoryItem
	serviceName string
	now         func() time.Time
}

type memoryItem struct {
	value     string
	expiresAt time.Time
}

func NewMemory(serviceName string) *Memory {
	return &Memory{
		items:       make(map[string]memoryItem),
		serviceName: serviceName,
		now:         time.Now,
	}
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	item := memoryItem{value: s}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = item
	return nil
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		return "", nil
	}
	if !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt) {
		delete(m.items, key)
		return "", nil
	}
	return item.value, nil
}

func (m *Memory) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", m.serviceName, operation, key)
}
