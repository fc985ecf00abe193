package order

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const randomSuffixLen = 6

// NumberGenerator hands out merchant order numbers of the form
// <prefix><yyyymmdd><counter><random>. The counter is process-wide and
// monotonic, so numbers never repeat within a process; the random suffix
// keeps two processes started on the same day apart.
type NumberGenerator struct {
	prefix string
	seq    atomic.Uint64
	now    func() time.Time
	random func() string
}

func NewNumberGenerator(prefix string) *NumberGenerator {
	return &NumberGenerator{
		prefix: prefix,
		now:    time.Now,
		random: randomSuffix,
	}
}

func (g *NumberGenerator) Next() string {
	n := g.seq.Add(1)
	return fmt.Sprintf("%s%s%09d%s", g.prefix, g.now().UTC().Format("20060102"), n, g.random())
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:randomSuffixLen]
}
