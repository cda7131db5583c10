package responses

type Message struct {
	Type    string `json:"type"` // "ok", "error"
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"` // application-level logic code
}

// application-level logic codes of error Messages
const (
	CodeInvalidInput = 1001 + iota
	CodeNotFound
	CodeUnauthorized
	CodeThrottled
	CodeStorage
	CodeInternal
	CodeBusy // another request holds the resource
)
