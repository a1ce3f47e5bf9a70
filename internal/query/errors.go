package query

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var errEmptyInfo = errors.New("empty info reply")

// ErrorKind categorizes why a query failed.
type ErrorKind int

const (
	KindTimeout ErrorKind = iota
	KindUnreachable
	KindProtocol
)

// String returns the string representation of an ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindUnreachable:
		return "unreachable"
	case KindProtocol:
		return "protocol"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Error is returned for every failed query.
type Error struct {
	Kind    ErrorKind
	Addr    string
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("query %s: %s: %v", e.Addr, e.Kind, e.Wrapped)
}

// Unwrap returns the wrapped error for errors.Unwrap support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// IsTimeout reports whether err is a query timeout.
func IsTimeout(err error) bool {
	var qe *Error
	return errors.As(err, &qe) && qe.Kind == KindTimeout
}

func wrap(addr string, err error) *Error {
	return &Error{Kind: classify(err), Addr: addr, Wrapped: err}
}

func classify(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	var oe *net.OpError
	if errors.As(err, &oe) {
		return KindUnreachable
	}
	var de *net.DNSError
	if errors.As(err, &de) {
		return KindUnreachable
	}
	return KindProtocol
}
