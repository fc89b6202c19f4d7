// Package upload checks that an uploaded file's bytes match its declared
// media type by comparing magic numbers. The declared type only selects which
// signature to check; it is never taken as proof of the file's type.
//
// Validation is a pure function of its inputs and is safe for concurrent use.
package upload

import (
	"fmt"
	"strings"
)

// Validator checks payloads against a fixed signature table.
type Validator struct {
	table Table
}

// NewValidator returns a Validator over a private copy of table, magic
// sequences included. Later changes to table do not affect it.
func NewValidator(table Table) *Validator {
	t := make(Table, len(table))
	for k, v := range table {
		t[strings.ToLower(k)] = v.clone()
	}
	return &Validator{table: t}
}

var std = &Validator{table: defaultTable}

// Validate checks payload against declaredType using the built-in table.
func Validate(payload []byte, declaredType string) Result {
	return std.Validate(payload, declaredType)
}

// SupportedTypes lists the canonical types of the built-in table.
func SupportedTypes() []string {
	return std.SupportedTypes()
}

// SupportedTypes lists the canonical types v accepts, sorted.
func (v *Validator) SupportedTypes() []string {
	return v.table.types()
}

// Validate decides whether payload really is of declaredType. declaredType may
// carry parameters after a semicolon (e.g. "; charset=UTF-8"); they are ignored.
func (v *Validator) Validate(payload []byte, declaredType string) Result {
	if len(payload) == 0 {
		return reject(EmptyInput, "uploaded file is empty")
	}

	canonical := Normalize(declaredType)
	if canonical == "" {
		return reject(MissingContentType, "content type is required")
	}

	sig, ok := v.table[canonical]
	if !ok {
		return reject(UnsupportedType, fmt.Sprintf("unsupported content type %q", canonical))
	}

	if len(payload) < sig.MinLength {
		return reject(TooSmall, fmt.Sprintf(
			"file is too small to be a valid %s (%d bytes, need at least %d); it may be truncated or corrupted",
			canonical, len(payload), sig.MinLength))
	}

	if !sig.matches(payload) {
		return reject(TypeMismatch, fmt.Sprintf(
			"file content does not match declared content type %s", canonical))
	}

	return accept(canonical)
}

// Normalize reduces a declared media type to its lower-cased base type with
// aliases resolved. It returns "" when no base type is present.
func Normalize(declaredType string) string {
	base, _, _ := strings.Cut(declaredType, ";")
	base = strings.ToLower(strings.TrimSpace(base))
	if alias, ok := aliases[base]; ok {
		return alias
	}
	return base
}
