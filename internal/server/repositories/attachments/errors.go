package attachments

import (
	"errors"
	"fmt"
)

// ErrDuplicate is what the memory repository reports where PostgreSQL would
// raise a unique violation.
var ErrDuplicate = errors.New("unique constraint violated")

func errDuplicate(what, id string) error {
	return fmt.Errorf("%w: %s of attachment %s", ErrDuplicate, what, id)
}
