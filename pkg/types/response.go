package types

// SuccessEnvelope wraps every 2xx body as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every error body as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Acknowledgement is the body of admin auth actions that return no resource:
// logout, change password, forgot password and reset password.
type Acknowledgement struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// WebhookReceipt tells Stripe the event was accepted, including replays.
type WebhookReceipt struct {
	Received bool `json:"received"`
}
