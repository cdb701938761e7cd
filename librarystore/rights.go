package librarystore

import (
	"strings"
)

// RightCode is the numeric code of a role descriptor.
type RightCode int

const (
	RightLibrarian RightCode = 1
	RightStudent   RightCode = 2
	RightAdmin     RightCode = 3
)

// Right is a role descriptor as stored in the rights table.
type Right struct {
	ID   int64
	Name string
	Code RightCode
}

// KnownRights returns the fixed set of role descriptors.
func KnownRights() []Right {
	return []Right{
		{ID: 1, Name: "librarian", Code: RightLibrarian},
		{ID: 2, Name: "student", Code: RightStudent},
		{ID: 3, Name: "admin", Code: RightAdmin},
	}
}

// Name returns the role name for the code, or "unknown".
func (c RightCode) Name() string {
	for _, right := range KnownRights() {
		if right.Code == c {
			return right.Name
		}
	}

	return "unknown"
}

// IsKnown reports whether the code is one of the fixed role codes.
func (c RightCode) IsKnown() bool {
	return c >= RightLibrarian && c <= RightAdmin
}

// Rights is the capability set a user holds. The zero value holds no rights.
type Rights uint8

// NewRights builds a capability set. Unknown codes are ignored.
func NewRights(codes ...RightCode) Rights {
	var r Rights
	for _, code := range codes {
		r = r.With(code)
	}

	return r
}

// With returns a copy of the set that also holds code.
func (r Rights) With(code RightCode) Rights {
	if !code.IsKnown() {
		return r
	}

	return r | 1<<uint(code)
}

// Has reports whether the set holds code.
func (r Rights) Has(code RightCode) bool {
	if !code.IsKnown() {
		return false
	}

	return r&(1<<uint(code)) != 0
}

// HasAny reports whether the set holds at least one of codes.
func (r Rights) HasAny(codes ...RightCode) bool {
	for _, code := range codes {
		if r.Has(code) {
			return true
		}
	}

	return false
}

// IsEmpty reports whether the set holds no rights.
func (r Rights) IsEmpty() bool {
	return r == 0
}

// Codes lists the held codes in ascending order.
func (r Rights) Codes() []RightCode {
	codes := make([]RightCode, 0, 3)
	for _, right := range KnownRights() {
		if r.Has(right.Code) {
			codes = append(codes, right.Code)
		}
	}

	return codes
}

// Names lists the held role names in ascending code order.
func (r Rights) Names() []string {
	codes := r.Codes()
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, code.Name())
	}

	return names
}

func (r Rights) String() string {
	return "{" + strings.Join(r.Names(), ",") + "}"
}
