package enums

import "fmt"

// AuthStatus marks whether an issued access token may still be used.
type AuthStatus string

const (
	AuthStatusValid       AuthStatus = "valid"
	AuthStatusInvalidated AuthStatus = "invalidated"
)

var validAuthStatuses = []AuthStatus{
	AuthStatusValid,
	AuthStatusInvalidated,
}

// String implements fmt.Stringer.
func (a AuthStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuthStatus.
func (a AuthStatus) IsValid() bool {
	for _, candidate := range validAuthStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuthStatus converts raw input into an AuthStatus.
func ParseAuthStatus(value string) (AuthStatus, error) {
	for _, candidate := range validAuthStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid auth status %q", value)
}
