package update

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repobridge/internal/execshell"
	"github.com/temirov/repobridge/internal/gitbridge"
	"github.com/temirov/repobridge/internal/githubapi"
	"github.com/temirov/repobridge/internal/githubauth"
	"github.com/temirov/repobridge/internal/utils"
	pathutils "github.com/temirov/repobridge/internal/utils/path"
	"github.com/temirov/repobridge/internal/workflow"
)

const (
	commandUseConstant                     = "update [plan]"
	commandShortDescriptionConstant        = "Clone, change, push, and open a pull request for a repository"
	commandLongDescriptionConstant         = "update clones the planned repository over credential-embedded HTTPS, creates a branch, applies the configured change, commits, pushes, and opens a pull request. The clone is removed and the credential cleared before the command returns."
	branchFlagNameConstant                 = "branch"
	branchFlagDescriptionConstant          = "Branch name created for the update"
	messageFlagNameConstant                = "message"
	messageFlagDescriptionConstant         = "Commit message recorded for the update"
	skipPullRequestFlagNameConstant        = "skip-pr"
	skipPullRequestFlagDescriptionConstant = "Push the branch without opening a pull request"
	requirePullRequestFlagNameConstant     = "require-pr"
	requirePullRequestFlagDescription      = "Fail the run when pull request creation fails"
	destinationFlagNameConstant            = "destination"
	destinationFlagDescriptionConstant     = "Directory receiving the temporary clone"
	planPathRequiredMessageConstant        = "update plan path required; provide a positional argument or the update.plan setting"
	tokenRequiredMessageConstant           = "access token required; set REPOBRIDGE_TOKEN, GH_TOKEN, or GITHUB_TOKEN"
	defaultRemoteHostConstant              = "github.com"
	noChangesMessageTemplateConstant       = "NO CHANGES: %s\n"
	pushedMessageTemplateConstant          = "PUSHED: %s (%s)\n"
	pullRequestMessageTemplateConstant     = "PULL REQUEST: %s\n"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the update command. Collaborator fields default
// to production implementations and exist so tests can substitute stubs.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	GitExecutorFactory    func(logger *zap.Logger, credential *gitbridge.Credential) (gitbridge.GitExecutor, error)
	PullRequestCreator    workflow.PullRequestCreator
	Applier               workflow.ChangeApplier
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the update command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(branchFlagNameConstant, "", branchFlagDescriptionConstant)
	command.Flags().String(messageFlagNameConstant, "", messageFlagDescriptionConstant)
	command.Flags().Bool(skipPullRequestFlagNameConstant, false, skipPullRequestFlagDescriptionConstant)
	command.Flags().Bool(requirePullRequestFlagNameConstant, false, requirePullRequestFlagDescription)
	command.Flags().String(destinationFlagNameConstant, "", destinationFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	planPath := configuration.PlanPath
	if len(arguments) > 0 {
		planPath = strings.TrimSpace(arguments[0])
	}
	if len(planPath) == 0 {
		if command != nil {
			_ = command.Help()
		}
		return errors.New(planPathRequiredMessageConstant)
	}

	plan, planError := workflow.ParsePlanFile(planPath)
	if planError != nil {
		return planError
	}

	applyEnvironmentDefaults(&plan, configuration)
	applyFlagOverrides(&plan, command)
	plan.Destination = pathutils.NewHomeExpander().Expand(plan.Destination)
	plan.ApplyDefaults()
	if validationError := plan.Validate(); validationError != nil {
		return validationError
	}

	tokenValue := configuration.Token
	if len(tokenValue) == 0 {
		tokenValue, _ = githubauth.ResolveToken(nil)
	}
	if len(tokenValue) == 0 {
		return errors.New(tokenRequiredMessageConstant)
	}

	credential, credentialError := gitbridge.NewCredential(tokenValue)
	if credentialError != nil {
		return credentialError
	}

	logger := builder.resolveLogger()

	gitExecutor, executorError := builder.resolveGitExecutor(logger, credential)
	if executorError != nil {
		return executorError
	}

	bridgeService, bridgeError := gitbridge.NewService(gitbridge.Dependencies{GitExecutor: gitExecutor})
	if bridgeError != nil {
		return bridgeError
	}

	pullRequestCreator, creatorError := builder.resolvePullRequestCreator(plan, configuration, tokenValue)
	if creatorError != nil {
		return creatorError
	}

	executor, workflowError := workflow.NewExecutor(workflow.Dependencies{
		Logger:       logger,
		Bridge:       bridgeService,
		PullRequests: pullRequestCreator,
		Applier:      builder.resolveApplier(plan, gitExecutor),
	})
	if workflowError != nil {
		return workflowError
	}

	result, runError := executor.Run(command.Context(), plan, credential)
	if runError != nil {
		return runError
	}

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	repositoryDisplayName := fmt.Sprintf("%s/%s", plan.Owner, plan.Repository)
	if !result.Committed {
		fmt.Fprintf(outputWriter, noChangesMessageTemplateConstant, repositoryDisplayName)
		return nil
	}
	fmt.Fprintf(outputWriter, pushedMessageTemplateConstant, repositoryDisplayName, plan.Branch)
	if len(result.PullRequestURL) > 0 {
		fmt.Fprintf(outputWriter, pullRequestMessageTemplateConstant, result.PullRequestURL)
	}

	return nil
}

func applyEnvironmentDefaults(plan *workflow.Plan, configuration CommandConfiguration) {
	if len(plan.Owner) == 0 {
		plan.Owner = configuration.Owner
	}
	if len(plan.Owner) == 0 {
		plan.Owner, _ = githubauth.ResolveOwner(nil)
	}
	if len(plan.Repository) == 0 {
		plan.Repository = configuration.Repository
	}
	if len(plan.Repository) == 0 {
		plan.Repository, _ = githubauth.ResolveRepository(nil)
	}
	if len(plan.Host) == 0 {
		plan.Host = configuration.EnterpriseHost
	}
}

func applyFlagOverrides(plan *workflow.Plan, command *cobra.Command) {
	if command == nil {
		return
	}
	if command.Flags().Changed(branchFlagNameConstant) {
		plan.Branch, _ = command.Flags().GetString(branchFlagNameConstant)
	}
	if command.Flags().Changed(messageFlagNameConstant) {
		plan.CommitMessage, _ = command.Flags().GetString(messageFlagNameConstant)
	}
	if command.Flags().Changed(skipPullRequestFlagNameConstant) {
		plan.PullRequest.Skip, _ = command.Flags().GetBool(skipPullRequestFlagNameConstant)
	}
	if command.Flags().Changed(requirePullRequestFlagNameConstant) {
		plan.PullRequest.Required, _ = command.Flags().GetBool(requirePullRequestFlagNameConstant)
	}
	if command.Flags().Changed(destinationFlagNameConstant) {
		plan.Destination, _ = command.Flags().GetString(destinationFlagNameConstant)
	}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// resolveGitExecutor builds the shell executor and installs the credential
// redactor so token-bearing arguments and remote stderr never reach logs.
func (builder *CommandBuilder) resolveGitExecutor(logger *zap.Logger, credential *gitbridge.Credential) (gitbridge.GitExecutor, error) {
	if builder.GitExecutorFactory != nil {
		return builder.GitExecutorFactory(logger, credential)
	}

	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if executorError != nil {
		return nil, executorError
	}
	shellExecutor.SetOutputSanitizer(credential.Redact)
	return shellExecutor, nil
}

func (builder *CommandBuilder) resolvePullRequestCreator(plan workflow.Plan, configuration CommandConfiguration, tokenValue string) (workflow.PullRequestCreator, error) {
	if builder.PullRequestCreator != nil {
		return builder.PullRequestCreator, nil
	}
	if plan.PullRequest.Skip {
		return nil, nil
	}

	enterpriseHost := configuration.EnterpriseHost
	if len(enterpriseHost) == 0 && len(plan.Host) > 0 && plan.Host != defaultRemoteHostConstant {
		enterpriseHost = plan.Host
	}

	return githubapi.NewClient(tokenValue, enterpriseHost)
}

// resolveApplier prefers the plan's mutation script when the executor can
// run arbitrary commands, falling back to the built-in transformation.
func (builder *CommandBuilder) resolveApplier(plan workflow.Plan, executor gitbridge.GitExecutor) workflow.ChangeApplier {
	if builder.Applier != nil {
		return builder.Applier
	}
	if len(plan.Script) > 0 {
		if runner, runnerAvailable := executor.(scriptRunner); runnerAvailable {
			return newScriptApplier(runner, plan.Script)
		}
	}
	return newBuiltinApplier()
}
