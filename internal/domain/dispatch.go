package domain

// Dispatch batch statuses. An all-fail batch after successful channel
// initialization is still partial_success; error is reserved for channel
// initialization failure.
const (
	DispatchSuccess        = "success"
	DispatchPartialSuccess = "partial_success"
	DispatchError          = "error"
)

// Outcome is the result of one delivery attempt. Exactly one of
// DeliveryID (delivered) or Reason (failed) is set.
type Outcome struct {
	Recipient  string `json:"recipient"`
	Delivered  bool   `json:"delivered"`
	DeliveryID string `json:"deliveryId,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// DispatchResult aggregates one batch of delivery attempts. Outcomes are
// aligned with the input recipient order regardless of completion order.
type DispatchResult struct {
	Status      string    `json:"status"`
	SentCount   int       `json:"sent"`
	FailedCount int       `json:"failed"`
	Outcomes    []Outcome `json:"outcomes"`
	Summary     string    `json:"summary"`
}
