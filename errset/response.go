package errset

import "encoding/json"

// Defaults for the wire representation of an aggregate failure.
const (
	DefaultMessage = "Invalid request data"
	DefaultCode    = 422
)

// Response is the canonical API-facing shape of an aggregate failure:
//
//	{ "message": ..., "code": ..., "context": { "validation": { path: [msg] } } }
type Response struct {
	Message string          `json:"message"`
	Code    int             `json:"code"`
	Context ResponseContext `json:"context"`
}

// ResponseContext carries the per-path validation messages.
type ResponseContext struct {
	Validation map[string][]string `json:"validation"`
}

// NewResponse builds a Response from a Set with the default message and
// code. Use the With* methods to override either.
func NewResponse(s *Set) Response {
	validation := make(map[string][]string, s.Len())
	for _, e := range s.Entries() {
		validation[e.Path] = append(validation[e.Path], e.Message)
	}

	return Response{
		Message: DefaultMessage,
		Code:    DefaultCode,
		Context: ResponseContext{Validation: validation},
	}
}

// WithMessage overrides the top-level message.
func (r Response) WithMessage(msg string) Response {
	r.Message = msg
	return r
}

// WithCode overrides the code.
func (r Response) WithCode(code int) Response {
	r.Code = code
	return r
}

// JSON renders the response.
func (r Response) JSON() ([]byte, error) {
	return json.Marshal(r)
}
