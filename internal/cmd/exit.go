package cmd

// ChildExitError maps a recorded child's termination onto the ttytap exit
// code: 1 for a nonzero exit, 2 for death by signal. It flows out of RunE
// so main can exit with the right status after cleanup has run.
type ChildExitError struct {
	Code   int
	Detail string
}

func (e *ChildExitError) Error() string { return e.Detail }
