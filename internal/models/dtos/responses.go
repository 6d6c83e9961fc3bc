package dtos

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// ValidationErrorResponse is the data of a 400 caused by request validation.
type ValidationErrorResponse struct {
	Errors map[string]string `json:"errors"`
}
