package workflow

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	planPathRequiredMessageConstant          = "plan path must be provided"
	planLoadErrorTemplateConstant            = "failed to load update plan: %w"
	planParseErrorTemplateConstant           = "failed to parse update plan: %w"
	planOwnerRequiredMessageConstant         = "plan owner must be provided"
	planRepositoryRequiredMessageConstant    = "plan repository must be provided"
	planBranchRequiredMessageConstant        = "plan branch must be provided"
	planCommitMessageRequiredMessageConstant = "plan commit message must be provided"
	planIdentityNameRequiredMessageConstant  = "plan identity name must be provided"
	planIdentityEmailRequiredMessageConstant = "plan identity email must be provided"
	planDefaultBaseBranchConstant            = "main"
)

// IdentityPlan names the committer recorded on the automated commit.
type IdentityPlan struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// PullRequestPlan shapes the pull request raised after a successful push.
type PullRequestPlan struct {
	Title    string `yaml:"title"`
	Body     string `yaml:"body"`
	Skip     bool   `yaml:"skip"`
	Required bool   `yaml:"required"`
}

// Plan declares one repository update run loaded from YAML.
type Plan struct {
	Owner         string          `yaml:"owner"`
	Repository    string          `yaml:"repository"`
	Host          string          `yaml:"host"`
	Branch        string          `yaml:"branch"`
	BaseBranch    string          `yaml:"base_branch"`
	CommitMessage string          `yaml:"commit_message"`
	Identity      IdentityPlan    `yaml:"identity"`
	Paths         []string        `yaml:"paths"`
	Script        []string        `yaml:"script"`
	Destination   string          `yaml:"destination"`
	PullRequest   PullRequestPlan `yaml:"pull_request"`
}

// LoadPlan reads an update plan from disk, applies defaults, and validates
// required fields. Plans may nest their fields beneath a top-level plan key.
func LoadPlan(filePath string) (Plan, error) {
	plan, parseError := ParsePlanFile(filePath)
	if parseError != nil {
		return Plan{}, parseError
	}
	if validationError := plan.Validate(); validationError != nil {
		return Plan{}, validationError
	}
	return plan, nil
}

// ParsePlanFile reads and parses a plan without validating required
// fields, letting callers merge flag and environment overrides first.
func ParsePlanFile(filePath string) (Plan, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Plan{}, errors.New(planPathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Plan{}, fmt.Errorf(planLoadErrorTemplateConstant, readError)
	}

	var plan Plan
	if unmarshalError := yaml.Unmarshal(contentBytes, &plan); unmarshalError != nil {
		return Plan{}, fmt.Errorf(planParseErrorTemplateConstant, unmarshalError)
	}

	if len(strings.TrimSpace(plan.Owner)) == 0 && len(strings.TrimSpace(plan.Repository)) == 0 {
		var wrapper struct {
			Plan Plan `yaml:"plan"`
		}
		if nestedError := yaml.Unmarshal(contentBytes, &wrapper); nestedError == nil {
			if len(strings.TrimSpace(wrapper.Plan.Owner)) > 0 || len(strings.TrimSpace(wrapper.Plan.Repository)) > 0 {
				plan = wrapper.Plan
			}
		}
	}

	plan.ApplyDefaults()
	return plan, nil
}

// ApplyDefaults trims fields and fills the base branch and pull request
// title when the plan leaves them empty.
func (plan *Plan) ApplyDefaults() {
	plan.Owner = strings.TrimSpace(plan.Owner)
	plan.Repository = strings.TrimSpace(plan.Repository)
	plan.Host = strings.TrimSpace(plan.Host)
	plan.Branch = strings.TrimSpace(plan.Branch)
	plan.BaseBranch = strings.TrimSpace(plan.BaseBranch)
	plan.CommitMessage = strings.TrimSpace(plan.CommitMessage)
	plan.Identity.Name = strings.TrimSpace(plan.Identity.Name)
	plan.Identity.Email = strings.TrimSpace(plan.Identity.Email)
	plan.Destination = strings.TrimSpace(plan.Destination)
	plan.PullRequest.Title = strings.TrimSpace(plan.PullRequest.Title)

	if len(plan.BaseBranch) == 0 {
		plan.BaseBranch = planDefaultBaseBranchConstant
	}
	if len(plan.PullRequest.Title) == 0 {
		plan.PullRequest.Title = plan.CommitMessage
	}

	sanitizedPaths := make([]string, 0, len(plan.Paths))
	for _, stagedPath := range plan.Paths {
		trimmedPath := strings.TrimSpace(stagedPath)
		if len(trimmedPath) > 0 {
			sanitizedPaths = append(sanitizedPaths, trimmedPath)
		}
	}
	plan.Paths = sanitizedPaths

	sanitizedScript := make([]string, 0, len(plan.Script))
	for _, scriptWord := range plan.Script {
		trimmedWord := strings.TrimSpace(scriptWord)
		if len(trimmedWord) > 0 {
			sanitizedScript = append(sanitizedScript, trimmedWord)
		}
	}
	plan.Script = sanitizedScript
}

// Validate reports the first missing required field.
func (plan Plan) Validate() error {
	if len(plan.Owner) == 0 {
		return errors.New(planOwnerRequiredMessageConstant)
	}
	if len(plan.Repository) == 0 {
		return errors.New(planRepositoryRequiredMessageConstant)
	}
	if len(plan.Branch) == 0 {
		return errors.New(planBranchRequiredMessageConstant)
	}
	if len(plan.CommitMessage) == 0 {
		return errors.New(planCommitMessageRequiredMessageConstant)
	}
	if len(plan.Identity.Name) == 0 {
		return errors.New(planIdentityNameRequiredMessageConstant)
	}
	if len(plan.Identity.Email) == 0 {
		return errors.New(planIdentityEmailRequiredMessageConstant)
	}
	return nil
}
