package githubauth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repobridge/internal/githubauth"
)

func TestResolveTokenPrefersExplicitEnvironmentMap(testInstance *testing.T) {
	testCases := []struct {
		name          string
		environment   map[string]string
		expectedToken string
		expectedFound bool
	}{
		{
			name:          "repobridge_token_wins",
			environment:   map[string]string{githubauth.EnvRepoBridgeToken: "bridge-token", githubauth.EnvGitHubToken: "generic-token"},
			expectedToken: "bridge-token",
			expectedFound: true,
		},
		{
			name:          "falls_back_to_gh_token",
			environment:   map[string]string{githubauth.EnvGitHubCLIToken: "cli-token"},
			expectedToken: "cli-token",
			expectedFound: true,
		},
		{
			name:          "blank_values_ignored",
			environment:   map[string]string{githubauth.EnvRepoBridgeToken: "   ", githubauth.EnvGitHubToken: "generic-token"},
			expectedToken: "generic-token",
			expectedFound: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolvedToken, tokenFound := githubauth.ResolveToken(testCase.environment)
			require.Equal(testInstance, testCase.expectedFound, tokenFound)
			require.Equal(testInstance, testCase.expectedToken, resolvedToken)
		})
	}
}

func TestResolveTokenConsultsProcessEnvironment(testInstance *testing.T) {
	testInstance.Setenv(githubauth.EnvRepoBridgeToken, "process-token")

	resolvedToken, tokenFound := githubauth.ResolveToken(nil)
	require.True(testInstance, tokenFound)
	require.Equal(testInstance, "process-token", resolvedToken)
}

func TestResolveOwner(testInstance *testing.T) {
	resolvedOwner, ownerFound := githubauth.ResolveOwner(map[string]string{githubauth.EnvGitHubUsername: "octocat"})
	require.True(testInstance, ownerFound)
	require.Equal(testInstance, "octocat", resolvedOwner)

	testInstance.Setenv(githubauth.EnvGitHubUsername, "")
	_, ownerFound = githubauth.ResolveOwner(nil)
	require.False(testInstance, ownerFound)
}

func TestResolveRepositoryStripsOwnerPrefix(testInstance *testing.T) {
	testCases := []struct {
		name               string
		environmentValue   string
		expectedRepository string
		expectedFound      bool
	}{
		{name: "plain_name", environmentValue: "hello-world", expectedRepository: "hello-world", expectedFound: true},
		{name: "owner_slash_name", environmentValue: "octocat/hello-world", expectedRepository: "hello-world", expectedFound: true},
		{name: "trailing_slash", environmentValue: "octocat/", expectedFound: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolvedRepository, repositoryFound := githubauth.ResolveRepository(map[string]string{githubauth.EnvGitHubRepository: testCase.environmentValue})
			require.Equal(testInstance, testCase.expectedFound, repositoryFound)
			require.Equal(testInstance, testCase.expectedRepository, resolvedRepository)
		})
	}
}
