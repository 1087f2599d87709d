package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrFacadeExpired is returned by handles used after their callback returned.
	ErrFacadeExpired = errors.New("facade used outside its callback")
	// ErrNotDrawPhase is returned by graphics calls outside Draw.
	ErrNotDrawPhase = errors.New("graphics are only available while drawing")
)

// ConstructionError aborts engine startup.
type ConstructionError struct {
	Subsystem string
	Err       error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct %s: %v", e.Subsystem, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// IsConstructionError reports whether err came from engine startup.
func IsConstructionError(err error) bool {
	var ce *ConstructionError
	return errors.As(err, &ce)
}
