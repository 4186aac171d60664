package luno

import "fmt"

//
// APIError implements the exchange.APIError interface for errors returned from Luno API calls. It
// is the body of every non-2xx response.
//
type APIError struct {
	ErrorMessage string            `json:"error"`
	ErrorCode    string            `json:"error_code"`
	ErrorAction  map[string]string `json:"error_action"`
}

func (o *APIError) Code() string {
	return o.ErrorCode
}

func (o *APIError) Message() string {
	return o.ErrorMessage
}

//
// Action returns the metadata Luno attaches to some errors describing what the caller can do
// about them. It is never nil.
//
func (o *APIError) Action() map[string]string {
	if o.ErrorAction == nil {
		return map[string]string{}
	}

	return o.ErrorAction
}

func (o *APIError) Error() string {
	return fmt.Sprintf("%s: %s", o.ErrorCode, o.ErrorMessage)
}

//
// populated returns whether or not the structure appears to actually hold an error. This is useful
// when determining whether or not the deserialized response payload was actually an error that fit
// into the structure's model or not.
//
func (o *APIError) populated() bool {
	return o.ErrorCode != "" || o.ErrorMessage != ""
}
