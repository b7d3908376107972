package gitbridge

import (
	"errors"
	"strings"
)

const (
	credentialRequiredMessageConstant = "credential must be provided"
	credentialRedactionPlaceholder    = "[REDACTED]"
)

// ErrCredentialRequired indicates an empty access token was supplied.
var ErrCredentialRequired = errors.New(credentialRequiredMessageConstant)

// Credential wraps a caller-supplied access token. The token is held in a
// mutable byte slice so Clear can overwrite it; the value is never exposed
// through String or any log rendering.
type Credential struct {
	tokenBytes []byte
}

// NewCredential validates the token for non-emptiness and wraps it.
func NewCredential(token string) (*Credential, error) {
	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		return nil, ErrCredentialRequired
	}
	return &Credential{tokenBytes: []byte(trimmedToken)}, nil
}

// Token returns the wrapped token value, or the empty string after Clear.
func (credential *Credential) Token() string {
	if credential == nil || len(credential.tokenBytes) == 0 {
		return ""
	}
	return string(credential.tokenBytes)
}

// Clear overwrites the token bytes and drops the reference. This is a
// best-effort hygiene measure, not a guarantee against memory inspection.
func (credential *Credential) Clear() {
	if credential == nil {
		return
	}
	for byteIndex := range credential.tokenBytes {
		credential.tokenBytes[byteIndex] = 0
	}
	credential.tokenBytes = nil
}

// Redact replaces every occurrence of the token in text with a placeholder.
func (credential *Credential) Redact(text string) string {
	tokenValue := credential.Token()
	if len(tokenValue) == 0 {
		return text
	}
	return strings.ReplaceAll(text, tokenValue, credentialRedactionPlaceholder)
}

// String implements fmt.Stringer and always hides the token.
func (credential *Credential) String() string {
	return credentialRedactionPlaceholder
}
