package httpx

// InitiatePaymentRequest accepts the amount as a JSON number or string;
// the order builder does the parsing.
type InitiatePaymentRequest struct {
	Amount      any    `json:"amount"`
	Currency    string `json:"currency,omitempty"`
	Language    string `json:"language,omitempty"`
	PlanID      string `json:"planId,omitempty"`
	UserID      string `json:"userId,omitempty"`
	Description string `json:"description,omitempty"`
}

type InitiatePaymentResponse struct {
	OrderNumber string `json:"orderNumber"`
	OrderID     string `json:"orderId"`
	FormURL     string `json:"formUrl"`
}

type ConfirmPaymentRequest struct {
	MdOrder  string `json:"mdOrder"`
	OrderID  string `json:"orderId"`
	Language string `json:"language,omitempty"`
}

type AttemptResponse struct {
	OrderNumber string `json:"orderNumber"`
	State       string `json:"state"`
	MdOrder     string `json:"mdOrder,omitempty"`
	FormURL     string `json:"formUrl,omitempty"`
	Amount      string `json:"amount"`
	Detail      string `json:"detail,omitempty"`
	TraceID     string `json:"traceId,omitempty"`
	UpdatedAt   string `json:"updatedAt"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
