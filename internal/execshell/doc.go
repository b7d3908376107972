// Package execshell executes external commands on behalf of repobridge.
//
// It wraps os/exec with structured logging via ShellExecutor, exposes
// typed errors distinguishing non-zero exits from spawn failures, and
// offers a git-specific wrapper alongside generic command execution used
// for caller-supplied mutation scripts.
package execshell
