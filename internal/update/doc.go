// Package update assembles the update command: it resolves the plan,
// credential, and collaborators, then drives one workflow run.
package update
