package gitbridge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/repobridge/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	repositoryPathRequiredMessageConstant       = "repository path must be provided"
	branchNameRequiredMessageConstant           = "branch name must be provided"
	commitMessageRequiredMessageConstant        = "commit message must be provided"
	destinationRemovalDetailTemplateConstant    = "remove destination %s: %v"
	gitCloneSubcommandConstant                  = "clone"
	gitRemoteSubcommandConstant                 = "remote"
	gitRemoteSetURLSubcommandConstant           = "set-url"
	gitCheckoutSubcommandConstant               = "checkout"
	gitCheckoutNewBranchFlagConstant            = "-b"
	gitAddSubcommandConstant                    = "add"
	gitAddAllFlagConstant                       = "-A"
	gitStatusSubcommandConstant                 = "status"
	gitStatusPorcelainFlagConstant              = "--porcelain"
	gitCommitSubcommandConstant                 = "commit"
	gitCommitMessageFlagConstant                = "-m"
	gitConfigOverrideFlagConstant               = "-c"
	gitConfigUserNameTemplateConstant           = "user.name=%s"
	gitConfigUserEmailTemplateConstant          = "user.email=%s"
	gitPushSubcommandConstant                   = "push"
	gitPushSetUpstreamFlagConstant              = "--set-upstream"
	gitOriginRemoteNameConstant                 = "origin"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	originRemoteSubjectConstant                 = "origin remote"
	defaultDestinationDirectoryNameConstant     = "repobridge"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// GitExecutor is the minimal surface required from execshell.ShellExecutor.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryHandle describes a local clone produced by Clone and destroyed
// by RemoveClone. The handle is owned exclusively by one workflow run.
type RepositoryHandle struct {
	Endpoint RemoteEndpoint
	Path     string
}

// Dependencies enumerates external collaborators required by the service.
type Dependencies struct {
	GitExecutor GitExecutor
}

// Service performs repository operations through the external git client.
type Service struct {
	executor GitExecutor
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &Service{executor: dependencies.GitExecutor}, nil
}

// DefaultDestination derives the clone destination used when the caller
// does not supply one.
func DefaultDestination(endpoint RemoteEndpoint) string {
	return filepath.Join(os.TempDir(), defaultDestinationDirectoryNameConstant, endpoint.Repository)
}

// Clone removes any pre-existing destination and clones the repository
// using a credential-embedded HTTPS URL. On failure the partial clone is
// removed so re-runs start from a clean slate.
func (service *Service) Clone(executionContext context.Context, endpoint RemoteEndpoint, credential *Credential, destination string) (RepositoryHandle, error) {
	authenticatedURL, urlError := endpoint.AuthenticatedCloneURL(credential)
	if urlError != nil {
		return RepositoryHandle{}, CloneError{Endpoint: endpoint, Detail: urlError.Error(), Cause: urlError}
	}

	trimmedDestination := strings.TrimSpace(destination)
	if len(trimmedDestination) == 0 {
		trimmedDestination = DefaultDestination(endpoint)
	}

	if removalError := os.RemoveAll(trimmedDestination); removalError != nil {
		return RepositoryHandle{}, CloneError{Endpoint: endpoint, Detail: fmt.Sprintf(destinationRemovalDetailTemplateConstant, trimmedDestination, removalError), Cause: removalError}
	}

	_, executionError := service.executeGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitCloneSubcommandConstant, authenticatedURL, trimmedDestination},
	})
	if executionError != nil {
		_ = os.RemoveAll(trimmedDestination)
		return RepositoryHandle{}, CloneError{Endpoint: endpoint, Detail: redactedDetail(credential, executionError), Cause: redactedCause(credential, executionError)}
	}

	return RepositoryHandle{Endpoint: endpoint, Path: trimmedDestination}, nil
}

// ConfigureRemote rewrites the origin remote URL to include the credential
// so subsequent pushes in the same run authenticate without prompting.
// Repeating the call with the same arguments leaves the remote unchanged.
func (service *Service) ConfigureRemote(executionContext context.Context, handle RepositoryHandle, credential *Credential) error {
	if len(strings.TrimSpace(handle.Path)) == 0 {
		return ConfigurationError{Subject: originRemoteSubjectConstant, Detail: repositoryPathRequiredMessageConstant}
	}

	authenticatedURL, urlError := handle.Endpoint.AuthenticatedCloneURL(credential)
	if urlError != nil {
		return ConfigurationError{Subject: originRemoteSubjectConstant, Detail: urlError.Error(), Cause: urlError}
	}

	_, executionError := service.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteSetURLSubcommandConstant, gitOriginRemoteNameConstant, authenticatedURL},
		WorkingDirectory: handle.Path,
	})
	if executionError != nil {
		return ConfigurationError{Subject: originRemoteSubjectConstant, Detail: redactedDetail(credential, executionError), Cause: redactedCause(credential, executionError)}
	}

	return nil
}

// CreateBranch creates and switches to a new local branch from the current HEAD.
func (service *Service) CreateBranch(executionContext context.Context, handle RepositoryHandle, branchName string) error {
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		return BranchError{BranchName: branchName, Detail: branchNameRequiredMessageConstant}
	}

	_, executionError := service.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCheckoutSubcommandConstant, gitCheckoutNewBranchFlagConstant, trimmedBranchName},
		WorkingDirectory: handle.Path,
	})
	if executionError != nil {
		return BranchError{BranchName: trimmedBranchName, Detail: executionError.Error(), Cause: executionError}
	}

	return nil
}

// CommitChanges stages the listed paths (or everything when none are
// given) and commits with the supplied identity. It returns false with a
// nil error when the working tree has nothing to commit, which is an
// expected outcome for idempotent re-runs.
func (service *Service) CommitChanges(executionContext context.Context, handle RepositoryHandle, identity Identity, message string, paths ...string) (bool, error) {
	trimmedMessage := strings.TrimSpace(message)
	if len(trimmedMessage) == 0 {
		return false, CommitError{Detail: commitMessageRequiredMessageConstant}
	}

	addArguments := []string{gitAddSubcommandConstant}
	if len(paths) > 0 {
		addArguments = append(addArguments, paths...)
	} else {
		addArguments = append(addArguments, gitAddAllFlagConstant)
	}

	if _, addError := service.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        addArguments,
		WorkingDirectory: handle.Path,
	}); addError != nil {
		return false, CommitError{Detail: addError.Error(), Cause: addError}
	}

	statusResult, statusError := service.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant},
		WorkingDirectory: handle.Path,
	})
	if statusError != nil {
		return false, CommitError{Detail: statusError.Error(), Cause: statusError}
	}

	if len(strings.TrimSpace(statusResult.StandardOutput)) == 0 {
		return false, nil
	}

	commitArguments := []string{
		gitConfigOverrideFlagConstant, fmt.Sprintf(gitConfigUserNameTemplateConstant, identity.Name),
		gitConfigOverrideFlagConstant, fmt.Sprintf(gitConfigUserEmailTemplateConstant, identity.Email),
		gitCommitSubcommandConstant,
		gitCommitMessageFlagConstant, trimmedMessage,
	}

	if _, commitError := service.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        commitArguments,
		WorkingDirectory: handle.Path,
	}); commitError != nil {
		return false, CommitError{Detail: commitError.Error(), Cause: commitError}
	}

	return true, nil
}

// PushBranch pushes the named branch to origin, optionally establishing
// the upstream tracking relation. The remote's rejection reason surfaces
// in the returned PushError with any credential redacted.
func (service *Service) PushBranch(executionContext context.Context, handle RepositoryHandle, credential *Credential, branchName string, setUpstream bool) error {
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		return PushError{BranchName: branchName, Detail: branchNameRequiredMessageConstant}
	}

	pushArguments := []string{gitPushSubcommandConstant}
	if setUpstream {
		pushArguments = append(pushArguments, gitPushSetUpstreamFlagConstant)
	}
	pushArguments = append(pushArguments, gitOriginRemoteNameConstant, trimmedBranchName)

	_, executionError := service.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        pushArguments,
		WorkingDirectory: handle.Path,
	})
	if executionError != nil {
		return PushError{BranchName: trimmedBranchName, Detail: redactedDetail(credential, executionError), Cause: redactedCause(credential, executionError)}
	}

	return nil
}

// RemoveClone recursively deletes the local working tree. A missing path
// is a no-op, not an error.
func (service *Service) RemoveClone(path string) error {
	trimmedPath := strings.TrimSpace(path)
	if len(trimmedPath) == 0 {
		return nil
	}

	if removalError := os.RemoveAll(trimmedPath); removalError != nil {
		return CleanupError{Path: trimmedPath, Detail: removalError.Error(), Cause: removalError}
	}

	return nil
}

func (service *Service) executeGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	if details.EnvironmentVariables == nil {
		details.EnvironmentVariables = map[string]string{}
	}
	details.EnvironmentVariables[gitTerminalPromptEnvironmentNameConstant] = gitTerminalPromptEnvironmentDisableConstant
	return service.executor.ExecuteGit(executionContext, details)
}

func redactedDetail(credential *Credential, err error) string {
	if credential == nil {
		return err.Error()
	}
	return credential.Redact(err.Error())
}

// redactedCause rebuilds a shell execution error with the credential
// scrubbed from its arguments and captured output, so the wrapped chain
// stays credential-free while errors.As keeps the exit code reachable.
func redactedCause(credential *Credential, executionError error) error {
	if credential == nil || executionError == nil {
		return executionError
	}

	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		commandFailure.Command.Details.Arguments = redactedArguments(credential, commandFailure.Command.Details.Arguments)
		commandFailure.Result.StandardOutput = credential.Redact(commandFailure.Result.StandardOutput)
		commandFailure.Result.StandardError = credential.Redact(commandFailure.Result.StandardError)
		return commandFailure
	}

	var spawnFailure execshell.CommandExecutionError
	if errors.As(executionError, &spawnFailure) {
		spawnFailure.Command.Details.Arguments = redactedArguments(credential, spawnFailure.Command.Details.Arguments)
		return spawnFailure
	}

	return executionError
}

func redactedArguments(credential *Credential, arguments []string) []string {
	redacted := make([]string, len(arguments))
	for argumentIndex, argumentValue := range arguments {
		redacted[argumentIndex] = credential.Redact(argumentValue)
	}
	return redacted
}
