package backend

// GenerateContentRequest is the envelope the generateContent endpoint expects.
type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

// Content is a single role-tagged message.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is one piece of a message. Only text parts are sent.
type Part struct {
	Text string `json:"text"`
}

// ErrorResponse is the error shape returned by the upstream API.
type ErrorResponse struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewPromptRequest wraps a prompt in a single user-authored message.
func NewPromptRequest(prompt string) GenerateContentRequest {
	return GenerateContentRequest{
		Contents: []Content{{
			Role:  "user",
			Parts: []Part{{Text: prompt}},
		}},
	}
}
