package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	repositoryPathRequiredMessageConstant = "repository path must be provided"
	dataDirectoryNameConstant             = "data"
	inputFileNameConstant                 = "input.txt"
	outputFileNameConstant                = "output.txt"
	outputHeaderTemplateConstant          = "# Generated at %s\n"
	noInputSentinelConstant               = "NO_INPUT\n"
	lineSeparatorConstant                 = "\n"
	ensureDataDirectoryErrTemplate        = "ensure data directory: %w"
	readInputErrTemplateConstant          = "read input file: %w"
	writeOutputErrTemplateConstant        = "write output file: %w"
	dataDirectoryPermissionsConstant      = 0o755
	outputFilePermissionsConstant         = 0o644
)

// ErrRepositoryPathRequired indicates an empty repository path was supplied.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// Result captures the observable outcome of one transformation run.
type Result struct {
	OutputPath       string
	ChangedPaths     []string
	TransformedLines int
	InputFound       bool
}

// Service applies the built-in transformation inside a working tree.
type Service struct {
	now func() time.Time
}

// NewService constructs a Service using the wall clock.
func NewService() *Service {
	return &Service{now: time.Now}
}

// NewServiceWithClock constructs a Service with an injected clock for tests.
func NewServiceWithClock(clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{now: clock}
}

// Apply reads data/input.txt when present, uppercases its non-empty lines,
// and rewrites data/output.txt with a timestamp header. Without input the
// output carries the NO_INPUT sentinel, keeping re-runs deterministic.
func (service *Service) Apply(executionContext context.Context, repositoryPath string) (Result, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}

	if contextError := executionContext.Err(); contextError != nil {
		return Result{}, contextError
	}

	dataDirectoryPath := filepath.Join(trimmedRepositoryPath, dataDirectoryNameConstant)
	if directoryError := os.MkdirAll(dataDirectoryPath, dataDirectoryPermissionsConstant); directoryError != nil {
		return Result{}, fmt.Errorf(ensureDataDirectoryErrTemplate, directoryError)
	}

	inputLines, inputFound, readError := readInputLines(filepath.Join(dataDirectoryPath, inputFileNameConstant))
	if readError != nil {
		return Result{}, readError
	}

	transformedLines := transformLines(inputLines)

	outputFilePath := filepath.Join(dataDirectoryPath, outputFileNameConstant)
	outputContent := service.renderOutput(transformedLines)
	if writeError := os.WriteFile(outputFilePath, []byte(outputContent), outputFilePermissionsConstant); writeError != nil {
		return Result{}, fmt.Errorf(writeOutputErrTemplateConstant, writeError)
	}

	return Result{
		OutputPath:       outputFilePath,
		ChangedPaths:     []string{filepath.Join(dataDirectoryNameConstant, outputFileNameConstant)},
		TransformedLines: len(transformedLines),
		InputFound:       inputFound,
	}, nil
}

func readInputLines(inputFilePath string) ([]string, bool, error) {
	inputContent, readError := os.ReadFile(inputFilePath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf(readInputErrTemplateConstant, readError)
	}
	return strings.Split(strings.TrimSuffix(string(inputContent), lineSeparatorConstant), lineSeparatorConstant), true, nil
}

func transformLines(inputLines []string) []string {
	transformedLines := make([]string, 0, len(inputLines))
	for _, inputLine := range inputLines {
		if len(strings.TrimSpace(inputLine)) == 0 {
			continue
		}
		transformedLines = append(transformedLines, strings.ToUpper(inputLine))
	}
	return transformedLines
}

func (service *Service) renderOutput(transformedLines []string) string {
	var outputBuilder strings.Builder
	outputBuilder.WriteString(fmt.Sprintf(outputHeaderTemplateConstant, service.now().UTC().Format(time.RFC3339)))
	if len(transformedLines) == 0 {
		outputBuilder.WriteString(noInputSentinelConstant)
		return outputBuilder.String()
	}
	outputBuilder.WriteString(strings.Join(transformedLines, lineSeparatorConstant))
	outputBuilder.WriteString(lineSeparatorConstant)
	return outputBuilder.String()
}
