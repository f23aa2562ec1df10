package responses

// Success wraps every 2xx body.
type Success struct {
	Data any `json:"data"`
}

// ErrorBody is the payload inside an error envelope. Details is omitted when the error code
// does not allow it.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}
