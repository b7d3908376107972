package workflow_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repobridge/internal/workflow"
)

const (
	testPlanContentConstant = `owner: octocat
repository: hello-world
branch: automated/update
commit_message: Automated update
identity:
  name: Bridge Bot
  email: bot@example.com
paths:
  - "  data/output.txt  "
  - ""
`
	testNestedPlanContentConstant = `plan:
  owner: octocat
  repository: hello-world
  branch: automated/update
  base_branch: develop
  commit_message: Automated update
  identity:
    name: Bridge Bot
    email: bot@example.com
  pull_request:
    title: Refresh generated data
    required: true
`
)

func writePlanFile(testInstance *testing.T, content string) string {
	testInstance.Helper()
	planPath := filepath.Join(testInstance.TempDir(), "plan.yaml")
	require.NoError(testInstance, os.WriteFile(planPath, []byte(content), 0o644))
	return planPath
}

func TestLoadPlanAppliesDefaults(testInstance *testing.T) {
	loadedPlan, loadError := workflow.LoadPlan(writePlanFile(testInstance, testPlanContentConstant))
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "main", loadedPlan.BaseBranch)
	require.Equal(testInstance, "Automated update", loadedPlan.PullRequest.Title)
	require.Equal(testInstance, []string{"data/output.txt"}, loadedPlan.Paths)
	require.False(testInstance, loadedPlan.PullRequest.Required)
}

func TestLoadPlanSupportsNestedPlanKey(testInstance *testing.T) {
	loadedPlan, loadError := workflow.LoadPlan(writePlanFile(testInstance, testNestedPlanContentConstant))
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "octocat", loadedPlan.Owner)
	require.Equal(testInstance, "develop", loadedPlan.BaseBranch)
	require.Equal(testInstance, "Refresh generated data", loadedPlan.PullRequest.Title)
	require.True(testInstance, loadedPlan.PullRequest.Required)
}

func TestLoadPlanRejectsMissingFields(testInstance *testing.T) {
	testCases := []struct {
		name            string
		planContent     string
		expectedMessage string
	}{
		{
			name:            "missing_owner",
			planContent:     "repository: hello-world\nbranch: b\ncommit_message: m\nidentity: {name: n, email: e}\n",
			expectedMessage: "plan owner must be provided",
		},
		{
			name:            "missing_repository",
			planContent:     "owner: octocat\nbranch: b\ncommit_message: m\nidentity: {name: n, email: e}\n",
			expectedMessage: "plan repository must be provided",
		},
		{
			name:            "missing_branch",
			planContent:     "owner: octocat\nrepository: hello-world\ncommit_message: m\nidentity: {name: n, email: e}\n",
			expectedMessage: "plan branch must be provided",
		},
		{
			name:            "missing_commit_message",
			planContent:     "owner: octocat\nrepository: hello-world\nbranch: b\nidentity: {name: n, email: e}\n",
			expectedMessage: "plan commit message must be provided",
		},
		{
			name:            "missing_identity_email",
			planContent:     "owner: octocat\nrepository: hello-world\nbranch: b\ncommit_message: m\nidentity: {name: n}\n",
			expectedMessage: "plan identity email must be provided",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, loadError := workflow.LoadPlan(writePlanFile(testInstance, testCase.planContent))
			require.Error(testInstance, loadError)
			require.Contains(testInstance, loadError.Error(), testCase.expectedMessage)
		})
	}
}

func TestLoadPlanRequiresPath(testInstance *testing.T) {
	_, loadError := workflow.LoadPlan("   ")
	require.Error(testInstance, loadError)
	require.Contains(testInstance, loadError.Error(), "plan path must be provided")
}

func TestLoadPlanReportsUnreadableFile(testInstance *testing.T) {
	_, loadError := workflow.LoadPlan(filepath.Join(testInstance.TempDir(), "absent.yaml"))
	require.Error(testInstance, loadError)
	require.Contains(testInstance, loadError.Error(), "failed to load update plan")
}
