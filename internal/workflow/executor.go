package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/repobridge/internal/gitbridge"
	"github.com/temirov/repobridge/internal/githubapi"
)

const (
	executorDependenciesMessageConstant        = "workflow executor requires a git bridge, a change applier, and a logger"
	executorCredentialRequiredMessageConstant  = "workflow executor requires a credential"
	executorPullRequestCreatorMessageConstant  = "workflow executor requires a pull request creator unless the plan skips pull requests"
	runStageErrorTemplateConstant              = "update run failed at %s: %w"
	stageCloneNameConstant                     = "clone"
	stageConfigureRemoteNameConstant           = "configure-remote"
	stageBranchNameConstant                    = "branch"
	stageApplyChangesNameConstant              = "apply-changes"
	stageCommitNameConstant                    = "commit"
	stagePushNameConstant                      = "push"
	stagePullRequestNameConstant               = "pull-request"
	logMessageRunStartedConstant               = "update run started"
	logMessageRepositoryClonedConstant         = "repository cloned"
	logMessageBranchCreatedConstant            = "branch created"
	logMessageChangesAppliedConstant           = "changes applied"
	logMessageNoChangesConstant                = "no changes to commit"
	logMessageChangesCommittedConstant         = "changes committed"
	logMessageBranchPushedConstant             = "branch pushed"
	logMessagePullRequestCreatedConstant       = "pull request created"
	logMessagePullRequestFailedConstant        = "pull request creation failed"
	logMessagePullRequestSkippedConstant       = "pull request creation skipped"
	logMessageCleanupFailedConstant            = "working tree removal failed"
	logMessageRunCleanedConstant               = "working tree removed and credential cleared"
	logFieldRepositoryNameConstant             = "repository"
	logFieldBranchNameConstant                 = "branch"
	logFieldBaseBranchNameConstant             = "base_branch"
	logFieldClonePathNameConstant              = "clone_path"
	logFieldPullRequestURLNameConstant         = "pull_request_url"
	logFieldPullRequestNumberNameConstant      = "pull_request_number"
	logFieldErrorNameConstant                  = "error"
)

// ErrExecutorDependenciesMissing indicates required collaborators were absent.
var ErrExecutorDependenciesMissing = errors.New(executorDependenciesMessageConstant)

// ErrCredentialMissing indicates Run was invoked without a credential.
var ErrCredentialMissing = errors.New(executorCredentialRequiredMessageConstant)

// ErrPullRequestCreatorMissing indicates the plan expects a pull request
// but no creator was wired.
var ErrPullRequestCreatorMissing = errors.New(executorPullRequestCreatorMessageConstant)

// GitBridge is the repository-operation surface consumed by the executor.
type GitBridge interface {
	Clone(executionContext context.Context, endpoint gitbridge.RemoteEndpoint, credential *gitbridge.Credential, destination string) (gitbridge.RepositoryHandle, error)
	ConfigureRemote(executionContext context.Context, handle gitbridge.RepositoryHandle, credential *gitbridge.Credential) error
	CreateBranch(executionContext context.Context, handle gitbridge.RepositoryHandle, branchName string) error
	CommitChanges(executionContext context.Context, handle gitbridge.RepositoryHandle, identity gitbridge.Identity, message string, paths ...string) (bool, error)
	PushBranch(executionContext context.Context, handle gitbridge.RepositoryHandle, credential *gitbridge.Credential, branchName string, setUpstream bool) error
	RemoveClone(path string) error
}

// PullRequestCreator raises a pull request for the pushed branch.
type PullRequestCreator interface {
	CreatePullRequest(executionContext context.Context, owner string, repository string, details githubapi.PullRequestDetails) (githubapi.PullRequestResult, error)
}

// ChangeApplier mutates the working tree between branch creation and
// commit. The executor treats the mutation as opaque.
type ChangeApplier interface {
	Apply(executionContext context.Context, repositoryPath string) error
}

// Dependencies configures collaborators for update runs.
type Dependencies struct {
	Logger       *zap.Logger
	Bridge       GitBridge
	PullRequests PullRequestCreator
	Applier      ChangeApplier
}

// Result reports the milestones reached and any pull request produced.
type Result struct {
	States            []RunState
	Committed         bool
	Pushed            bool
	PullRequestURL    string
	PullRequestNumber int
	ClonePath         string
}

// Executor drives one update plan from clone through cleanup.
type Executor struct {
	dependencies Dependencies
}

// NewExecutor validates collaborators and constructs an Executor.
func NewExecutor(dependencies Dependencies) (*Executor, error) {
	if dependencies.Logger == nil || dependencies.Bridge == nil || dependencies.Applier == nil {
		return nil, ErrExecutorDependenciesMissing
	}
	return &Executor{dependencies: dependencies}, nil
}

// Run executes the plan strictly in order: clone, configure remote, create
// branch, apply changes, commit, push, create pull request. The clone is
// removed and the credential cleared before Run returns, on success and on
// failure alike. A commit with nothing to record ends the run successfully
// without pushing. Pull request failure leaves the pushed branch intact and
// fails the run only when the plan marks the pull request as required.
func (executor *Executor) Run(executionContext context.Context, plan Plan, credential *gitbridge.Credential) (Result, error) {
	result := Result{States: []RunState{RunStateStart}}

	if credential == nil {
		result.States = append(result.States, RunStateFailed)
		executor.cleanup(&result, "", credential)
		return result, ErrCredentialMissing
	}
	if !plan.PullRequest.Skip && executor.dependencies.PullRequests == nil {
		result.States = append(result.States, RunStateFailed)
		executor.cleanup(&result, "", credential)
		return result, ErrPullRequestCreatorMissing
	}

	endpoint, endpointError := gitbridge.NewRemoteEndpoint(plan.Host, plan.Owner, plan.Repository)
	if endpointError != nil {
		result.States = append(result.States, RunStateFailed)
		executor.cleanup(&result, "", credential)
		return result, endpointError
	}

	identity, identityError := gitbridge.NewIdentity(plan.Identity.Name, plan.Identity.Email)
	if identityError != nil {
		result.States = append(result.States, RunStateFailed)
		executor.cleanup(&result, "", credential)
		return result, identityError
	}

	executor.dependencies.Logger.Info(
		logMessageRunStartedConstant,
		zap.String(logFieldRepositoryNameConstant, endpoint.DisplayName()),
		zap.String(logFieldBranchNameConstant, plan.Branch),
		zap.String(logFieldBaseBranchNameConstant, plan.BaseBranch),
	)

	handle, cloneError := executor.dependencies.Bridge.Clone(executionContext, endpoint, credential, plan.Destination)
	if cloneError != nil {
		result.States = append(result.States, RunStateFailed)
		executor.cleanup(&result, handle.Path, credential)
		return result, fmt.Errorf(runStageErrorTemplateConstant, stageCloneNameConstant, cloneError)
	}
	result.ClonePath = handle.Path
	result.States = append(result.States, RunStateCloned)
	executor.dependencies.Logger.Info(
		logMessageRepositoryClonedConstant,
		zap.String(logFieldRepositoryNameConstant, endpoint.DisplayName()),
		zap.String(logFieldClonePathNameConstant, handle.Path),
	)

	runError := executor.runInsideClone(executionContext, plan, credential, endpoint, identity, handle, &result)
	executor.cleanup(&result, handle.Path, credential)
	return result, runError
}

func (executor *Executor) runInsideClone(executionContext context.Context, plan Plan, credential *gitbridge.Credential, endpoint gitbridge.RemoteEndpoint, identity gitbridge.Identity, handle gitbridge.RepositoryHandle, result *Result) error {
	if remoteError := executor.dependencies.Bridge.ConfigureRemote(executionContext, handle, credential); remoteError != nil {
		result.States = append(result.States, RunStateFailed)
		return fmt.Errorf(runStageErrorTemplateConstant, stageConfigureRemoteNameConstant, remoteError)
	}

	if branchError := executor.dependencies.Bridge.CreateBranch(executionContext, handle, plan.Branch); branchError != nil {
		result.States = append(result.States, RunStateFailed)
		return fmt.Errorf(runStageErrorTemplateConstant, stageBranchNameConstant, branchError)
	}
	result.States = append(result.States, RunStateBranched)
	executor.dependencies.Logger.Info(logMessageBranchCreatedConstant, zap.String(logFieldBranchNameConstant, plan.Branch))

	if applyError := executor.dependencies.Applier.Apply(executionContext, handle.Path); applyError != nil {
		result.States = append(result.States, RunStateFailed)
		return fmt.Errorf(runStageErrorTemplateConstant, stageApplyChangesNameConstant, applyError)
	}
	result.States = append(result.States, RunStateChangesApplied)
	executor.dependencies.Logger.Info(logMessageChangesAppliedConstant, zap.String(logFieldClonePathNameConstant, handle.Path))

	committed, commitError := executor.dependencies.Bridge.CommitChanges(executionContext, handle, identity, plan.CommitMessage, plan.Paths...)
	if commitError != nil {
		result.States = append(result.States, RunStateFailed)
		return fmt.Errorf(runStageErrorTemplateConstant, stageCommitNameConstant, commitError)
	}
	if !committed {
		result.States = append(result.States, RunStateNoChanges)
		executor.dependencies.Logger.Info(logMessageNoChangesConstant, zap.String(logFieldRepositoryNameConstant, endpoint.DisplayName()))
		return nil
	}
	result.Committed = true
	result.States = append(result.States, RunStateCommitted)
	executor.dependencies.Logger.Info(logMessageChangesCommittedConstant, zap.String(logFieldBranchNameConstant, plan.Branch))

	if pushError := executor.dependencies.Bridge.PushBranch(executionContext, handle, credential, plan.Branch, true); pushError != nil {
		result.States = append(result.States, RunStateFailed)
		return fmt.Errorf(runStageErrorTemplateConstant, stagePushNameConstant, pushError)
	}
	result.Pushed = true
	result.States = append(result.States, RunStatePushed)
	executor.dependencies.Logger.Info(logMessageBranchPushedConstant, zap.String(logFieldBranchNameConstant, plan.Branch))

	if plan.PullRequest.Skip {
		executor.dependencies.Logger.Info(logMessagePullRequestSkippedConstant, zap.String(logFieldBranchNameConstant, plan.Branch))
		return nil
	}

	pullRequestResult, pullRequestError := executor.dependencies.PullRequests.CreatePullRequest(executionContext, endpoint.Owner, endpoint.Repository, githubapi.PullRequestDetails{
		Title:      plan.PullRequest.Title,
		HeadBranch: plan.Branch,
		BaseBranch: plan.BaseBranch,
		Body:       plan.PullRequest.Body,
	})
	if pullRequestError != nil {
		result.States = append(result.States, RunStatePullRequestFailed)
		executor.dependencies.Logger.Warn(
			logMessagePullRequestFailedConstant,
			zap.String(logFieldRepositoryNameConstant, endpoint.DisplayName()),
			zap.String(logFieldBranchNameConstant, plan.Branch),
			zap.String(logFieldErrorNameConstant, pullRequestError.Error()),
		)
		if plan.PullRequest.Required {
			return fmt.Errorf(runStageErrorTemplateConstant, stagePullRequestNameConstant, pullRequestError)
		}
		return nil
	}

	result.PullRequestURL = pullRequestResult.URL
	result.PullRequestNumber = pullRequestResult.Number
	result.States = append(result.States, RunStatePullRequestCreated)
	executor.dependencies.Logger.Info(
		logMessagePullRequestCreatedConstant,
		zap.String(logFieldPullRequestURLNameConstant, pullRequestResult.URL),
		zap.Int(logFieldPullRequestNumberNameConstant, pullRequestResult.Number),
	)

	return nil
}

// cleanup removes the working tree and clears the credential. Removal
// failure is logged rather than returned so it cannot mask a run error.
func (executor *Executor) cleanup(result *Result, clonePath string, credential *gitbridge.Credential) {
	if removalError := executor.dependencies.Bridge.RemoveClone(clonePath); removalError != nil {
		executor.dependencies.Logger.Warn(
			logMessageCleanupFailedConstant,
			zap.String(logFieldClonePathNameConstant, clonePath),
			zap.String(logFieldErrorNameConstant, removalError.Error()),
		)
	}
	credential.Clear()
	result.States = append(result.States, RunStateCleaned)
	executor.dependencies.Logger.Info(logMessageRunCleanedConstant, zap.String(logFieldClonePathNameConstant, clonePath))
}
