// Package process ships the built-in change applier used when an update
// plan names no mutation script. It performs a deterministic sample
// transformation: non-empty lines of data/input.txt are uppercased into
// data/output.txt beneath a generation timestamp header.
package process
