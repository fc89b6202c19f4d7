package upload

import (
	"bytes"
	"sort"
)

// Canonical media types with a known signature.
const (
	TypeJPEG = "image/jpeg"
	TypePNG  = "image/png"
	TypePDF  = "application/pdf"
)

// Signature describes the leading bytes a payload must start with to be
// accepted as a given media type.
type Signature struct {
	// Magic holds the accepted leading byte sequences; matching any one is enough.
	Magic [][]byte
	// MinLength is the shortest payload that can be checked against Magic.
	MinLength int
}

// Table maps a canonical media type to its signature.
type Table map[string]Signature

// aliases maps legacy or non-standard type strings to their canonical form.
var aliases = map[string]string{
	"image/jpg":   TypeJPEG,
	"image/pjpeg": TypeJPEG,
}

// defaultTable is built once and only read afterwards.
var defaultTable = Table{
	TypeJPEG: {
		Magic:     [][]byte{{0xFF, 0xD8, 0xFF}},
		MinLength: 3,
	},
	TypePNG: {
		Magic:     [][]byte{{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
		MinLength: 8,
	},
	TypePDF: {
		Magic:     [][]byte{[]byte("%PDF-")},
		MinLength: 5,
	},
}

// DefaultTable returns a copy of the built-in signature table, suitable as a
// base for NewValidator when adding types.
func DefaultTable() Table {
	t := make(Table, len(defaultTable))
	for k, v := range defaultTable {
		t[k] = v.clone()
	}
	return t
}

// clone returns s with its own copies of the magic sequences.
func (s Signature) clone() Signature {
	magic := make([][]byte, len(s.Magic))
	for i, m := range s.Magic {
		magic[i] = bytes.Clone(m)
	}
	return Signature{Magic: magic, MinLength: s.MinLength}
}

// types returns the canonical types of t in sorted order.
func (t Table) types() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// matches reports whether payload starts with one of the signature's magic
// sequences. The caller has already checked MinLength.
func (s Signature) matches(payload []byte) bool {
	for _, magic := range s.Magic {
		if bytes.HasPrefix(payload, magic) {
			return true
		}
	}
	return false
}
