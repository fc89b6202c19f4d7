package upload

import "errors"

// Kind classifies why an upload was rejected.
type Kind int

const (
	// KindNone is the kind of an accepted upload.
	KindNone Kind = iota
	// EmptyInput means the payload was missing or zero length.
	EmptyInput
	// MissingContentType means no declared media type was given.
	MissingContentType
	// UnsupportedType means the declared type has no known signature.
	UnsupportedType
	// TooSmall means the payload is shorter than its signature needs.
	TooSmall
	// TypeMismatch means the leading bytes do not match the declared type.
	TypeMismatch
)

var kindCodes = [...]string{
	KindNone:           "ok",
	EmptyInput:         "empty_input",
	MissingContentType: "missing_content_type",
	UnsupportedType:    "unsupported_type",
	TooSmall:           "too_small",
	TypeMismatch:       "type_mismatch",
}

// String returns the stable machine-readable code of k, used in API error
// bodies and metric labels.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindCodes) {
		return "unknown"
	}
	return kindCodes[k]
}

// Error is the error form of a rejected Result.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsKind reports whether err is an upload rejection of the given kind.
func IsKind(err error, kind Kind) bool {
	var ue *Error
	return errors.As(err, &ue) && ue.Kind == kind
}

// Result is the verdict for one upload. The zero value is not meaningful;
// results are only produced by a Validator.
type Result struct {
	canonical string
	kind      Kind
	message   string
}

func accept(canonical string) Result {
	return Result{canonical: canonical}
}

func reject(kind Kind, message string) Result {
	return Result{kind: kind, message: message}
}

// OK reports whether the upload was accepted.
func (r Result) OK() bool { return r.kind == KindNone && r.canonical != "" }

// CanonicalType is the normalized media type of an accepted upload, or "".
func (r Result) CanonicalType() string { return r.canonical }

// Kind is the rejection kind, or KindNone on success.
func (r Result) Kind() Kind { return r.kind }

// Message is the human-readable rejection reason, or "" on success.
func (r Result) Message() string { return r.message }

// Err returns nil for an accepted upload and an *Error otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Kind: r.kind, Message: r.message}
}
