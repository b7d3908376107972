// Package workflow orchestrates a single repository update run: clone,
// branch, apply changes, commit, push, and raise a pull request, with
// working-tree removal and credential clearing guaranteed on every exit
// path.
package workflow
