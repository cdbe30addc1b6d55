package handlers

const (
	ErrInvalidJSON         = "Invalid JSON body"
	ErrTooManyRequests     = "Too many requests"
	ErrInternalServerError = "server error"

	// maxBodyBytes caps request bodies
	maxBodyBytes = 1 << 20
)
