package exchange

import "fmt"

//
// HTTPError represents a non-2xx response from an API endpoint whose body could not be understood
// as a first-class API error. The underlying decode failure (if any) is available via Unwrap.
//
type HTTPError struct {
	statusCode int
	cause      error
}

func NewHTTPError(statusCode int, cause error) *HTTPError {
	return &HTTPError{
		statusCode: statusCode,
		cause:      cause,
	}
}

func (o *HTTPError) StatusCode() int {
	return o.statusCode
}

func (o *HTTPError) Error() string {
	if o.cause == nil {
		return fmt.Sprintf("server responded with a %d status code", o.statusCode)
	}

	return fmt.Sprintf("server responded with a %d status code (%s)", o.statusCode, o.cause)
}

func (o *HTTPError) Unwrap() error {
	return o.cause
}
