package merge

import (
	"fmt"

	"golang.org/x/xerrors"
)

var (
	// ErrExhausted is returned by Next called after the end of the sequence.
	ErrExhausted = xerrors.New("merge: iterator exhausted")

	// ErrUnsupported is returned by Remove.
	ErrUnsupported = xerrors.New("merge: unsupported operation")
)

// ReduceError is returned by Grouping.Next when reducer fails.
type ReduceError struct {
	// Key of the group that failed.
	Key any
	// Size is the number of values passed to the reducer.
	Size int

	Err error
}

func (e *ReduceError) Error() string {
	return fmt.Sprintf("merge: reduce group %v of %d values: %v", e.Key, e.Size, e.Err)
}

func (e *ReduceError) Unwrap() error {
	return e.Err
}
