package update

import (
	"context"

	"github.com/temirov/repobridge/internal/execshell"
	"github.com/temirov/repobridge/internal/process"
)

// builtinApplier adapts the process service to the workflow change applier.
type builtinApplier struct {
	service *process.Service
}

func newBuiltinApplier() builtinApplier {
	return builtinApplier{service: process.NewService()}
}

func (applier builtinApplier) Apply(executionContext context.Context, repositoryPath string) error {
	_, applyError := applier.service.Apply(executionContext, repositoryPath)
	return applyError
}

// scriptRunner is the command-execution surface needed to run plan scripts.
type scriptRunner interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// scriptApplier runs the plan's mutation script inside the clone.
type scriptApplier struct {
	runner scriptRunner
	script []string
}

func newScriptApplier(runner scriptRunner, script []string) scriptApplier {
	return scriptApplier{runner: runner, script: append([]string{}, script...)}
}

func (applier scriptApplier) Apply(executionContext context.Context, repositoryPath string) error {
	_, executionError := applier.runner.Execute(executionContext, execshell.ShellCommand{
		Name: execshell.CommandName(applier.script[0]),
		Details: execshell.CommandDetails{
			Arguments:        applier.script[1:],
			WorkingDirectory: repositoryPath,
		},
	})
	return executionError
}
