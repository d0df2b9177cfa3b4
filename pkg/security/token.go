package security

import (
	"strings"

	"github.com/google/uuid"
)

// NewAccessToken returns a fresh opaque bearer token.
func NewAccessToken() string {
	return uuid.NewString()
}

// NewStoreCredential returns the opaque value stores send in Store-Credential.
func NewStoreCredential() string {
	return "sc_" + compactUUID()
}

// NewOrderCode returns a 32 character lowercase hex reference.
func NewOrderCode() string {
	return compactUUID()
}

func compactUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
