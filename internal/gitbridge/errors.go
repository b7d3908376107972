package gitbridge

import "fmt"

const (
	configurationErrorTemplateConstant = "configuration of %s failed: %s"
	cloneErrorTemplateConstant         = "cloning %s failed: %s"
	branchErrorTemplateConstant        = "creating branch %q failed: %s"
	commitErrorTemplateConstant        = "committing changes failed: %s"
	pushErrorTemplateConstant          = "pushing branch %q failed: %s"
	cleanupErrorTemplateConstant       = "removing clone at %s failed: %s"
)

// ConfigurationError reports a failed identity or remote configuration
// operation. Detail text and the wrapped cause are redacted before the
// error is constructed.
type ConfigurationError struct {
	Subject string
	Detail  string
	Cause   error
}

// Error describes the configuration failure.
func (configurationError ConfigurationError) Error() string {
	return fmt.Sprintf(configurationErrorTemplateConstant, configurationError.Subject, configurationError.Detail)
}

// Unwrap exposes the underlying failure, nil for validation errors.
func (configurationError ConfigurationError) Unwrap() error {
	return configurationError.Cause
}

// CloneError reports a failed clone operation with credential-free detail.
type CloneError struct {
	Endpoint RemoteEndpoint
	Detail   string
	Cause    error
}

// Error describes the clone failure.
func (cloneError CloneError) Error() string {
	return fmt.Sprintf(cloneErrorTemplateConstant, cloneError.Endpoint.DisplayName(), cloneError.Detail)
}

// Unwrap exposes the underlying failure, nil for validation errors.
func (cloneError CloneError) Unwrap() error {
	return cloneError.Cause
}

// BranchError reports a failed branch creation.
type BranchError struct {
	BranchName string
	Detail     string
	Cause      error
}

// Error describes the branch failure.
func (branchError BranchError) Error() string {
	return fmt.Sprintf(branchErrorTemplateConstant, branchError.BranchName, branchError.Detail)
}

// Unwrap exposes the underlying failure, nil for validation errors.
func (branchError BranchError) Unwrap() error {
	return branchError.Cause
}

// CommitError reports a genuine commit failure. An empty diff is not an
// error and never produces a CommitError.
type CommitError struct {
	Detail string
	Cause  error
}

// Error describes the commit failure.
func (commitError CommitError) Error() string {
	return fmt.Sprintf(commitErrorTemplateConstant, commitError.Detail)
}

// Unwrap exposes the underlying failure, nil for validation errors.
func (commitError CommitError) Unwrap() error {
	return commitError.Cause
}

// PushError reports a rejected or failed push including the remote's
// rejection reason when git surfaced one.
type PushError struct {
	BranchName string
	Detail     string
	Cause      error
}

// Error describes the push failure.
func (pushError PushError) Error() string {
	return fmt.Sprintf(pushErrorTemplateConstant, pushError.BranchName, pushError.Detail)
}

// Unwrap exposes the underlying failure, nil for validation errors.
func (pushError PushError) Unwrap() error {
	return pushError.Cause
}

// CleanupError reports a failed working tree removal.
type CleanupError struct {
	Path   string
	Detail string
	Cause  error
}

// Error describes the cleanup failure.
func (cleanupError CleanupError) Error() string {
	return fmt.Sprintf(cleanupErrorTemplateConstant, cleanupError.Path, cleanupError.Detail)
}

// Unwrap exposes the underlying failure.
func (cleanupError CleanupError) Unwrap() error {
	return cleanupError.Cause
}
