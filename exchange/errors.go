package exchange

import (
	"errors"
	"fmt"
)

//
// Kind is an enum that classifies every failure a client can surface to its callers. Each kind is
// terminal for the call that produced it; nothing in the client retries on its own.
//
type Kind int

const (
	Unknown     Kind = iota
	URLParse         // The request URL could not be built.
	Transport        // The request could not be sent or its response could not be read.
	Timeout          // The configured deadline passed before the response was fully read.
	API              // The exchange answered with a first-class API error.
	Decode           // A response body did not match the shape it was expected to have.
	InvalidEnum      // A string did not name a known enum value (e.g. currency pair, order type).
)

func (o Kind) String() string {
	switch o {
	case URLParse:
		return "url parse error"
	case Transport:
		return "transport error"
	case Timeout:
		return "timeout error"
	case API:
		return "api error"
	case Decode:
		return "decode error"
	case InvalidEnum:
		return "invalid enum value"
	default:
		return "unknown error"
	}
}

//
// Error is the single error type returned by exchange clients. The underlying cause is always
// available through Unwrap, so callers can use errors.As to reach an exchange-specific APIError or
// an HTTPError.
//
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func NewError(kind Kind, op string, err error) *Error {
	return &Error{
		Kind: kind,
		Op:   op,
		Err:  err,
	}
}

func (o *Error) Error() string {
	if o.Err == nil {
		return fmt.Sprintf("%s: %s", o.Op, o.Kind)
	}

	return fmt.Sprintf("%s: %s: %s", o.Op, o.Kind, o.Err)
}

func (o *Error) Unwrap() error {
	return o.Err
}

//
// Is reports whether the target is an *Error of the same kind, which allows checks such as
// errors.Is(err, &exchange.Error{Kind: exchange.Timeout}).
//
func (o *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == o.Kind && (t.Op == "" || t.Op == o.Op)
}

//
// KindOf returns the kind of the first *Error found in the provided error's chain, or Unknown if
// there is none.
//
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return Unknown
}

//
// EnumError describes a string that could not be converted into the named enum type.
//
type EnumError struct {
	Type  string
	Value string
}

func (o *EnumError) Error() string {
	return fmt.Sprintf("%q is not a valid %s", o.Value, o.Type)
}
