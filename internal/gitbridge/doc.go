// Package gitbridge performs repository operations against a single remote
// repository through the external git client.
//
// It exposes Service for clone, remote rewrite, branch, commit, push, and
// cleanup operations, a Credential wrapper that keeps the access token out
// of logs and error text, and RemoteEndpoint for building clone URLs.
package gitbridge
