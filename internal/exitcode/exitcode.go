// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// Failure indicates a storage, server or other runtime error.
	Failure = 1

	// Usage indicates bad arguments, empty task text or an unknown task reference.
	Usage = 2
)
