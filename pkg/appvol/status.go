package appvol

import (
	"errors"
	"fmt"
)

// Status is the integer result of SetProgramVolume, stable across the shared library boundary
type Status int32

const (
	// StatusSuccess means a matching session was found and its volume was changed
	StatusSuccess Status = 0

	// StatusProgramNotFound means no session matched, or the session chain could not be walked
	StatusProgramNotFound Status = 1

	// StatusInvalidArgument means the volume level was outside [0.0, 1.0]
	StatusInvalidArgument Status = -1

	// StatusSubsystemInitFailed means the host audio subsystem could not be bound for this call
	StatusSubsystemInitFailed Status = -2
)

var (
	ErrInvalidVolume   = errors.New("volume level outside [0.0, 1.0]")
	ErrSubsystemInit   = errors.New("audio subsystem initialization failed")
	ErrProgramNotFound = errors.New("no audio session found for program")
)

// StatusFromError folds an error returned by Set into one of the four status codes.
// Anything that isn't an argument or binding error counts as "not found".
func StatusFromError(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrInvalidVolume):
		return StatusInvalidArgument
	case errors.Is(err, ErrSubsystemInit):
		return StatusSubsystemInitFailed
	default:
		return StatusProgramNotFound
	}
}

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusProgramNotFound:
		return "program not found"
	case StatusInvalidArgument:
		return "invalid argument"
	case StatusSubsystemInitFailed:
		return "subsystem init failed"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}
