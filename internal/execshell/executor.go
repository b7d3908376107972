package execshell

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	gitCommandNameConstant                   = "git"
	loggerNotConfiguredMessageConstant       = "shell executor logger not configured"
	runnerNotConfiguredMessageConstant       = "shell executor command runner not configured"
	commandNameRequiredMessageConstant       = "shell command name required"
	commandFailedErrorTemplateConstant       = "%s failed with exit code %d%s"
	commandExecutionErrorTemplateConstant    = "%s failed: %v"
	standardErrorDetailTemplateConstant      = ": %s"
	logFieldCommandConstant                  = "command"
	logFieldArgumentsConstant                = "arguments"
	logFieldWorkingDirectoryConstant         = "working_directory"
	logFieldExitCodeConstant                 = "exit_code"
	logMessageCommandStartedConstant         = "executing command"
	logMessageCommandCompletedConstant       = "command completed"
	logMessageCommandFailedConstant          = "command failed"
	logMessageCommandSpawnFailureConstant    = "command execution failed"
	emptyStandardErrorPlaceholderConstant    = ""
	successfulExitCodeConstant               = 0
)

// CommandName identifies the executable invoked through the shell executor.
type CommandName string

// CommandGit is the external git client used for every repository operation.
const CommandGit CommandName = CommandName(gitCommandNameConstant)

// CommandDetails carries the arguments and execution environment for a command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand binds a command name to its execution details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outputs of a completed command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner abstracts process execution so tests can record invocations.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// OutputSanitizer rewrites command output before it reaches logs or errors.
// gitbridge installs a credential redactor here so embedded tokens never
// escape through stderr.
type OutputSanitizer func(text string) string

var (
	// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
	ErrCommandRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)
	// ErrCommandNameRequired indicates an execution request omitted the executable name.
	ErrCommandNameRequired = errors.New(commandNameRequiredMessageConstant)
)

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command including sanitized standard error output.
func (failureError CommandFailedError) Error() string {
	standardErrorDetail := emptyStandardErrorPlaceholderConstant
	if len(failureError.Result.StandardError) > 0 {
		standardErrorDetail = fmt.Sprintf(standardErrorDetailTemplateConstant, failureError.Result.StandardError)
	}
	return fmt.Sprintf(commandFailedErrorTemplateConstant, describeCommand(failureError.Command), failureError.Result.ExitCode, standardErrorDetail)
}

// CommandExecutionError reports a command that could not be spawned at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, describeCommand(executionError.Command), executionError.Cause)
}

// Unwrap exposes the underlying spawn failure.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// ShellExecutor runs external commands with lifecycle logging and sanitized failures.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	sanitizer OutputSanitizer
}

// NewShellExecutor validates dependencies and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{logger: logger, runner: runner}, nil
}

// SetOutputSanitizer installs a sanitizer applied to all logged and reported command output.
func (executor *ShellExecutor) SetOutputSanitizer(sanitizer OutputSanitizer) {
	executor.sanitizer = sanitizer
}

// ExecuteGit runs the git client with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// Execute runs an arbitrary command through the configured runner.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if len(command.Name) == 0 {
		return ExecutionResult{}, ErrCommandNameRequired
	}

	executor.logger.Info(
		logMessageCommandStartedConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, executor.sanitizeArguments(command.Details.Arguments)),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Error(
			logMessageCommandSpawnFailureConstant,
			zap.String(logFieldCommandConstant, string(command.Name)),
			zap.Error(runError),
		)
		return ExecutionResult{}, CommandExecutionError{Command: executor.sanitizeCommand(command), Cause: runError}
	}

	executionResult = executor.sanitizeResult(executionResult)

	if executionResult.ExitCode != successfulExitCodeConstant {
		executor.logger.Error(
			logMessageCommandFailedConstant,
			zap.String(logFieldCommandConstant, string(command.Name)),
			zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		)
		return ExecutionResult{}, CommandFailedError{Command: executor.sanitizeCommand(command), Result: executionResult}
	}

	executor.logger.Info(
		logMessageCommandCompletedConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
	)

	return executionResult, nil
}

func (executor *ShellExecutor) sanitizeArguments(arguments []string) []string {
	if executor.sanitizer == nil {
		return arguments
	}
	sanitizedArguments := make([]string, len(arguments))
	for argumentIndex, argumentValue := range arguments {
		sanitizedArguments[argumentIndex] = executor.sanitizer(argumentValue)
	}
	return sanitizedArguments
}

func (executor *ShellExecutor) sanitizeCommand(command ShellCommand) ShellCommand {
	sanitizedCommand := command
	sanitizedCommand.Details.Arguments = executor.sanitizeArguments(command.Details.Arguments)
	return sanitizedCommand
}

func (executor *ShellExecutor) sanitizeResult(result ExecutionResult) ExecutionResult {
	if executor.sanitizer == nil {
		return result
	}
	sanitizedResult := result
	sanitizedResult.StandardOutput = executor.sanitizer(result.StandardOutput)
	sanitizedResult.StandardError = executor.sanitizer(result.StandardError)
	return sanitizedResult
}
