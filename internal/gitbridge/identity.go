package gitbridge

import "strings"

const (
	identitySubjectConstant              = "committer identity"
	identityNameRequiredMessageConstant  = "identity name must be provided"
	identityEmailRequiredMessageConstant = "identity email must be provided"
)

// Identity carries the committer name and email applied to each commit.
// The identity is passed per invocation through git -c flags instead of
// mutating global git configuration, so concurrent runs in one process
// cannot contaminate each other.
type Identity struct {
	Name  string
	Email string
}

// NewIdentity validates both fields and returns the identity value.
func NewIdentity(name string, email string) (Identity, error) {
	trimmedName := strings.TrimSpace(name)
	if len(trimmedName) == 0 {
		return Identity{}, ConfigurationError{Subject: identitySubjectConstant, Detail: identityNameRequiredMessageConstant}
	}

	trimmedEmail := strings.TrimSpace(email)
	if len(trimmedEmail) == 0 {
		return Identity{}, ConfigurationError{Subject: identitySubjectConstant, Detail: identityEmailRequiredMessageConstant}
	}

	return Identity{Name: trimmedName, Email: trimmedEmail}, nil
}
