package dto

// Envelope is the uniform response shape: {code, data}. Errors reuse it
// with Data holding the error kind and a human-readable message.
type Envelope struct {
	Code int `json:"code"`
	Data any `json:"data"`
}

// ErrorPayload is the Data member of an error envelope.
type ErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// OK wraps a success payload.
func OK(data any) Envelope {
	return Envelope{Code: 200, Data: data}
}

// Created wraps a creation payload.
func Created(data any) Envelope {
	return Envelope{Code: 201, Data: data}
}

// Fail wraps an error kind and message.
func Fail(code int, kind, message string) Envelope {
	return Envelope{Code: code, Data: ErrorPayload{Error: kind, Message: message}}
}
