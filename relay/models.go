package relay

// Request is the platform-neutral view of an inbound call.
type Request struct {
	Method    string
	Body      []byte
	RequestID string
}

// Response is what the hosting adapter writes back to the caller.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// PromptPayload represents the expected JSON structure in the request body.
type PromptPayload struct {
	Prompt string `json:"prompt" validate:"required,notblank"`
}

// ErrorBody is the body of every failure response.
type ErrorBody struct {
	Error string `json:"error"`
}
