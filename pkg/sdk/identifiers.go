package sdk

import "regexp"

var (
	netIDRE   = regexp.MustCompile(`^[a-z][a-z0-9]{0,7}$`)
	groupIDRE = regexp.MustCompile(`^(u|uw)_[a-z0-9][a-z0-9_-]*$`)
)

// NetID is a personal account identifier: 1-8 lowercase alphanumerics
// starting with a letter.
type NetID string

// GroupID is a namespaced group identifier such as u_admins or uw_staff.
type GroupID string

func (n NetID) String() string   { return string(n) }
func (g GroupID) String() string { return string(g) }

// ValidateNetID checks s against the NetID grammar.
func ValidateNetID(s string) (NetID, error) {
	if !netIDRE.MatchString(s) {
		return "", &ValidationError{
			Field:  "NetID",
			Value:  s,
			Reason: "too long or invalid characters",
		}
	}
	return NetID(s), nil
}

// ValidateGroupID checks s against the group ID grammar.
func ValidateGroupID(s string) (GroupID, error) {
	if !groupIDRE.MatchString(s) {
		return "", &ValidationError{
			Field:  "group ID",
			Value:  s,
			Reason: "incomplete or invalid group ID",
		}
	}
	return GroupID(s), nil
}
