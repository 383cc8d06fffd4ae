package gemini

import "fmt"

// APIError is a non-2xx answer from the generative language API.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini api error %d: %s", e.Code, e.Message)
}
