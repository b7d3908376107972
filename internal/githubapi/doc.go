// Package githubapi creates pull requests through the GitHub REST API.
//
// The access token travels exclusively in the Authorization header; it is
// never embedded in URLs or query parameters for API calls.
package githubapi
