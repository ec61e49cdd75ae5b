package models

// Message is a stored contact submission. CreatedAt and UpdatedAt are
// epoch milliseconds stamped by the service layer, never by the caller.
type Message struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Message     string `json:"message"`
	Fingerprint string `json:"fingerPrint"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// MessageRequest shapes inbound create/update payloads. Empty fields in
// an update request leave the stored value untouched.
type MessageRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Message     string `json:"message"`
	Fingerprint string `json:"fingerPrint"`
}

// APIResponse is the uniform envelope returned by every endpoint.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
