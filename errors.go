package fluentpath

import (
	"errors"
	"fmt"

	"github.com/bleroy/fluentpath/await"
)

// ErrPendingOperation reports a read of paths, equality, hash, or iteration
// before the pending operation settled. It is the same sentinel the await
// package returns from unsettled reads, so errors.Is matches either name.
var ErrPendingOperation = await.ErrPending

// ErrEmptySet reports a first-element read of an empty path set.
var ErrEmptySet = errors.New("path set is empty")

func pendingErr(pathID string) error {
	return fmt.Errorf("%w: %s", ErrPendingOperation, pathID)
}
