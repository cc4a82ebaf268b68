package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Search API errors
	ErrUnauthorized     = fmt.Errorf("access token invalid or expired")
	ErrUnexpectedStatus = fmt.Errorf("unexpected response status")
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrShapeMismatch    = fmt.Errorf("response did not match the expected shape")

	// Storage errors
	ErrStorageOpen  = fmt.Errorf("failed to open track store")
	ErrStorageWrite = fmt.Errorf("failed to write track")
	ErrStorageRead  = fmt.Errorf("failed to read tracks")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
