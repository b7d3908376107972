// Package githubauth resolves the access token and repository defaults
// from the process environment. The token is treated as an opaque value;
// nothing here parses, validates, or stores it beyond a non-empty check.
package githubauth
