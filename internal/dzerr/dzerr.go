// Package dzerr defines the error taxonomy shared by every stage of the
// compressor and decompressor: IoError, OutOfMemory, InvalidArgument, and
// CorruptStream (decompressor only). Every fallible function in this module
// returns one of these, wrapped with context, so callers can branch on kind
// via errors.Is/errors.As without inspecting message text.
package dzerr

import "fmt"

// Kind identifies which of the four error categories an Error belongs to.
type Kind int

const (
	// IoError means an underlying file operation (open, read, write, close)
	// failed.
	IoError Kind = iota
	// OutOfMemory means an allocation inside the arena/heap/pool failed.
	OutOfMemory
	// InvalidArgument means the caller supplied a path that is neither a
	// regular file nor a directory, or CLI argument arity was wrong.
	InvalidArgument
	// CorruptStream means the decompressor found a truncated header, an
	// out-of-range length field, or an unknown (group, codeword) pair. A
	// body that ends mid-emission is not reported; decoding stops there.
	CorruptStream
)

func (k Kind) String() string {
	switch k {
	case IoError:
		return "IoError"
	case OutOfMemory:
		return "OutOfMemory"
	case InvalidArgument:
		return "InvalidArgument"
	case CorruptStream:
		return "CorruptStream"
	default:
		return "UnknownError"
	}
}

// Error is a typed, wrapped error carrying a Kind alongside the usual
// message and cause chain.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, dzerr.ErrCorruptStream) via the sentinel helpers below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an Error of the given kind, optionally wrapping cause.
func New(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Sentinels usable with errors.Is(err, dzerr.ErrCorruptStream) etc. — each
// carries only its Kind, so Is() matches on Kind alone and ignores Msg/Err.
var (
	ErrIoError         = &Error{Kind: IoError}
	ErrOutOfMemory     = &Error{Kind: OutOfMemory}
	ErrInvalidArgument = &Error{Kind: InvalidArgument}
	ErrCorruptStream   = &Error{Kind: CorruptStream}
)

// Of reports the Kind of err if it (or something it wraps) is a *Error, and
// whether one was found at all.
func Of(err error) (Kind, bool) {
	var e *Error
	if ok := asError(err, &e); ok {
		return e.Kind, true
	}
	return 0, false
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
