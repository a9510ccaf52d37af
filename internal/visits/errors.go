package visits

import "errors"

// Kind classifies why a visit request failed.
type Kind int

const (
	KindNone Kind = iota
	MissingAuth
	MissingField
	ParseFailure
	RemoteFailure
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case MissingAuth:
		return "missing_auth"
	case MissingField:
		return "missing_field"
	case ParseFailure:
		return "parse_failure"
	case RemoteFailure:
		return "remote_failure"
	default:
		return "unknown"
	}
}

// Error is returned for every failed visit request. Msg is what the caller sees.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of err, or RemoteFailure for untyped errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return RemoteFailure
}

func newError(k Kind, msg string, err error) *Error {
	return &Error{Kind: k, Msg: msg, Err: err}
}
