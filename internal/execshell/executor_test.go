package execshell_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/repobridge/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant     = "success"
	testExecutionFailureCaseNameConstant     = "failure_exit_code"
	testExecutionRunnerErrorCaseNameConstant = "runner_error"
	testCommandArgumentConstant              = "--version"
	testWorkingDirectoryConstant             = "."
	testStandardErrorOutputConstant          = "remote rejected"
	testSecretValueConstant                  = "s3cr3t-token-value"
	testRedactionPlaceholderConstant         = "[REDACTED]"
)

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.executionResult, runner.executionError
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectedError error
	}{
		{name: "missing_logger", logger: nil, runner: &recordingCommandRunner{}, expectedError: execshell.ErrLoggerNotConfigured},
		{name: "missing_runner", logger: zap.NewNop(), runner: nil, expectedError: execshell.ErrCommandRunnerNotConfigured},
		{name: "valid_dependencies", logger: zap.NewNop(), runner: &recordingCommandRunner{}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, creationError, testCase.expectedError)
				require.Nil(testInstance, executor)
				return
			}
			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, executor)
		})
	}
}

func TestShellExecutorExecuteBehavior(testInstance *testing.T) {
	testCases := []struct {
		name             string
		runnerResult     execshell.ExecutionResult
		runnerError      error
		expectedType     any
		expectedLogCount int
	}{
		{
			name:             testExecutionSuccessCaseNameConstant,
			runnerResult:     execshell.ExecutionResult{StandardOutput: "ok", ExitCode: 0},
			expectedLogCount: 2,
		},
		{
			name:             testExecutionFailureCaseNameConstant,
			runnerResult:     execshell.ExecutionResult{StandardError: testStandardErrorOutputConstant, ExitCode: 1},
			expectedType:     execshell.CommandFailedError{},
			expectedLogCount: 2,
		},
		{
			name:             testExecutionRunnerErrorCaseNameConstant,
			runnerError:      errors.New("runner failure"),
			expectedType:     execshell.CommandExecutionError{},
			expectedLogCount: 2,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zap.DebugLevel)
			logger := zap.New(observerCore)

			recordingRunner := &recordingCommandRunner{executionResult: testCase.runnerResult, executionError: testCase.runnerError}
			shellExecutor, creationError := execshell.NewShellExecutor(logger, recordingRunner)
			require.NoError(testInstance, creationError)

			commandDetails := execshell.CommandDetails{Arguments: []string{testCommandArgumentConstant}, WorkingDirectory: testWorkingDirectoryConstant}
			executionResult, executionError := shellExecutor.ExecuteGit(context.Background(), commandDetails)

			if testCase.expectedType != nil {
				require.Error(testInstance, executionError)
				require.IsType(testInstance, testCase.expectedType, executionError)
				require.Empty(testInstance, executionResult.StandardOutput)
			} else {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.runnerResult.StandardOutput, executionResult.StandardOutput)
			}

			require.Len(testInstance, observedLogs.All(), testCase.expectedLogCount)
		})
	}
}

func TestShellExecutorRejectsEmptyCommandName(testInstance *testing.T) {
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), &recordingCommandRunner{})
	require.NoError(testInstance, creationError)

	_, executionError := shellExecutor.Execute(context.Background(), execshell.ShellCommand{})
	require.ErrorIs(testInstance, executionError, execshell.ErrCommandNameRequired)
}

func TestShellExecutorSanitizerRedactsFailureOutput(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zap.DebugLevel)
	logger := zap.New(observerCore)

	recordingRunner := &recordingCommandRunner{
		executionResult: execshell.ExecutionResult{StandardError: "fatal: cannot reach https://user:" + testSecretValueConstant + "@github.com/user/repo.git", ExitCode: 128},
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, recordingRunner)
	require.NoError(testInstance, creationError)
	shellExecutor.SetOutputSanitizer(func(text string) string {
		return strings.ReplaceAll(text, testSecretValueConstant, testRedactionPlaceholderConstant)
	})

	commandDetails := execshell.CommandDetails{Arguments: []string{"clone", "https://user:" + testSecretValueConstant + "@github.com/user/repo.git"}}
	_, executionError := shellExecutor.ExecuteGit(context.Background(), commandDetails)
	require.Error(testInstance, executionError)
	require.NotContains(testInstance, executionError.Error(), testSecretValueConstant)
	require.Contains(testInstance, executionError.Error(), testRedactionPlaceholderConstant)

	for _, observedEntry := range observedLogs.All() {
		for _, contextField := range observedEntry.Context {
			require.NotContains(testInstance, contextField.String, testSecretValueConstant)
		}
	}
}
