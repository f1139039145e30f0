package common

const (
	// MaxRequestBody limits JSON request bodies for save/auth endpoints.
	MaxRequestBody = 1 << 20
)
