package model

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RoleName is a canonical platform role
type RoleName string

const (
	RoleAttendee  RoleName = "ATTENDEE"
	RoleOrganizer RoleName = "ORGANIZER"
	RoleAdmin     RoleName = "ADMIN"
)

// RolePrefix is the naming-convention prefix some services put on role strings
const RolePrefix = "ROLE_"

var knownRoles = map[RoleName]struct{}{
	RoleAttendee:  {},
	RoleOrganizer: {},
	RoleAdmin:     {},
}

// WireValue returns the prefixed form the upstream registration endpoint expects
func (r RoleName) WireValue() string {
	return RolePrefix + string(r)
}

// ParseRole canonicalizes a single raw role string.
// The second return value is false for unrecognized input.
func ParseRole(raw string) (RoleName, bool) {
	raw = strings.TrimSpace(raw)
	// Role names are ASCII; case mapping would fold look-alikes such as
	// dotless ı onto them.
	if !isASCII(raw) {
		return "", false
	}
	// Casers carry state and are not shared between goroutines.
	name := cases.Upper(language.Und).String(raw)
	name = strings.TrimPrefix(name, RolePrefix)
	role := RoleName(name)
	if _, ok := knownRoles[role]; !ok {
		return "", false
	}
	return role, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// RoleSet is a set of canonical roles
type RoleSet map[RoleName]struct{}

// NormalizeRoles maps raw role strings ("ROLE_ADMIN", "admin", ...) onto the
// canonical vocabulary. Unrecognized strings are ignored.
func NormalizeRoles(raw []string) RoleSet {
	set := make(RoleSet, len(raw))
	for _, r := range raw {
		if role, ok := ParseRole(r); ok {
			set[role] = struct{}{}
		}
	}
	return set
}

// Has reports whether the set contains role
func (s RoleSet) Has(role RoleName) bool {
	_, ok := s[role]
	return ok
}

// Slice returns the roles in a stable order
func (s RoleSet) Slice() []RoleName {
	out := make([]RoleName, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
