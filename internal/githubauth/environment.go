package githubauth

import (
	"os"
	"strings"
)

// Environment variable names consulted for credentials and defaults.
const (
	EnvRepoBridgeToken  = "REPOBRIDGE_TOKEN"
	EnvGitHubCLIToken   = "GH_TOKEN"
	EnvGitHubToken      = "GITHUB_TOKEN"
	EnvGitHubUsername   = "GITHUB_USERNAME"
	EnvGitHubRepository = "GITHUB_REPOSITORY"
)

var tokenPreference = []string{
	EnvRepoBridgeToken,
	EnvGitHubCLIToken,
	EnvGitHubToken,
}

// ResolveToken returns the first non-empty access token observed in the
// provided environment map or the process environment.
func ResolveToken(environment map[string]string) (string, bool) {
	for _, environmentKey := range tokenPreference {
		if environmentValue, found := lookup(environment, environmentKey); found {
			return environmentValue, true
		}
	}
	for _, environmentKey := range tokenPreference {
		if environmentValue, found := lookupProcess(environmentKey); found {
			return environmentValue, true
		}
	}
	return "", false
}

// ResolveOwner returns the default repository owner from the environment.
func ResolveOwner(environment map[string]string) (string, bool) {
	if environmentValue, found := lookup(environment, EnvGitHubUsername); found {
		return environmentValue, true
	}
	return lookupProcess(EnvGitHubUsername)
}

// ResolveRepository returns the default repository name from the
// environment. A GITHUB_REPOSITORY value of the owner/name form yields
// only the name segment.
func ResolveRepository(environment map[string]string) (string, bool) {
	environmentValue, found := lookup(environment, EnvGitHubRepository)
	if !found {
		environmentValue, found = lookupProcess(EnvGitHubRepository)
	}
	if !found {
		return "", false
	}
	if separatorIndex := strings.LastIndex(environmentValue, "/"); separatorIndex >= 0 {
		repositoryName := strings.TrimSpace(environmentValue[separatorIndex+1:])
		if len(repositoryName) == 0 {
			return "", false
		}
		return repositoryName, true
	}
	return environmentValue, true
}

func lookup(environment map[string]string, environmentKey string) (string, bool) {
	if environment == nil {
		return "", false
	}
	environmentValue, exists := environment[environmentKey]
	if !exists {
		return "", false
	}
	trimmedValue := strings.TrimSpace(environmentValue)
	if len(trimmedValue) == 0 {
		return "", false
	}
	return trimmedValue, true
}

func lookupProcess(environmentKey string) (string, bool) {
	environmentValue, exists := os.LookupEnv(environmentKey)
	if !exists {
		return "", false
	}
	trimmedValue := strings.TrimSpace(environmentValue)
	if len(trimmedValue) == 0 {
		return "", false
	}
	return trimmedValue, true
}
