package handler

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Response is the envelope used by the versioned API. The legacy admin
// endpoints bypass it and keep their flat wire shape.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{Status: statusSuccess, Data: data}
}

func NewErrorResponse(message string) *Response {
	return &Response{Status: statusError, Message: message}
}
