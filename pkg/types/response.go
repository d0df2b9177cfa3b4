package types

// ErrorBody is the wire shape of every failed request.
type ErrorBody struct {
	Detail  string `json:"detail"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}
