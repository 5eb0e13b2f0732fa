package droplit

import (
	"errors"
	"fmt"
)

// Sentinel errors for rejected actions. Match them with errors.Is.
var (
	ErrNotPlaying  = errors.New("session is not playing")
	ErrBusy        = errors.New("resolution in progress")
	ErrNoBudget    = errors.New("no budget left")
	ErrOutOfBounds = errors.New("cell out of bounds")
	ErrIdle        = errors.New("no resolution in progress")
	ErrBadAxis     = errors.New("unknown laser axis")
)

// ActionError reports why an action was refused. Refused actions never
// mutate the session.
type ActionError struct {
	Op   string // "place", "rain", "bomb", "laser", "freeze", "advance"
	Kind error  // One of the sentinel errors
	Cell Cell
}

func (e *ActionError) Error() string {
	if e.Kind == ErrOutOfBounds {
		return fmt.Sprintf("droplit: %s %v: %v", e.Op, e.Cell, e.Kind)
	}
	return fmt.Sprintf("droplit: %s: %v", e.Op, e.Kind)
}

// Is lets errors.Is match the sentinel kind.
func (e *ActionError) Is(target error) bool {
	return e.Kind == target
}

// Unwrap returns the sentinel kind.
func (e *ActionError) Unwrap() error {
	return e.Kind
}

func refuse(op string, kind error, c Cell) error {
	return &ActionError{Op: op, Kind: kind, Cell: c}
}
