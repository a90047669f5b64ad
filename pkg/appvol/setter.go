// Package appvol sets the playback volume of a running program's audio session
// on the default output device
package appvol

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// VolumeSetter finds a program's audio session and adjusts its volume.
// It holds no per-call state: every operation binds and releases the audio subsystem on its own
type VolumeSetter struct {
	logger    *zap.SugaredLogger
	subsystem Subsystem
}

// visitFunc is called for every session acquired during a walk. returning true ends the walk
type visitFunc func(sessionIdx int, control SessionControl) (bool, error)

// NewVolumeSetter creates a VolumeSetter on top of the given audio subsystem
func NewVolumeSetter(logger *zap.SugaredLogger, subsystem Subsystem) (*VolumeSetter, error) {
	if subsystem == nil {
		return nil, errors.New("create volume setter: nil subsystem")
	}

	vs := &VolumeSetter{
		logger:    logger.Named("volume_setter"),
		subsystem: subsystem,
	}

	vs.logger.Debug("Created volume setter instance")

	return vs, nil
}

// ValidVolume reports whether v is a usable volume level (0.0 is silence, 1.0 is full volume)
func ValidVolume(v float32) bool {
	return !math.IsNaN(float64(v)) && v >= 0.0 && v <= 1.0
}

// SetProgramVolume sets the volume of the first session belonging to programName and reports the outcome
// as a status code. Failures along the session chain are reported as StatusProgramNotFound
func (vs *VolumeSetter) SetProgramVolume(programName string, volumeLevel float32) Status {
	return StatusFromError(vs.Set(programName, volumeLevel))
}

// Set is SetProgramVolume with the underlying error kept intact. The returned error wraps
// ErrInvalidVolume, ErrSubsystemInit or ErrProgramNotFound; in the last case it also carries
// every acquisition failure encountered while scanning
func (vs *VolumeSetter) Set(programName string, volumeLevel float32) error {
	if !ValidVolume(volumeLevel) {
		vs.logger.Warnw("Refusing to set out of range volume", "program", programName, "volume", volumeLevel)
		return fmt.Errorf("set %s volume to %v: %w", programName, volumeLevel, ErrInvalidVolume)
	}

	binding, err := vs.subsystem.Open()
	if err != nil {
		vs.logger.Warnw("Failed to bind audio subsystem", "error", err)
		return fmt.Errorf("%w: %w", ErrSubsystemInit, err)
	}
	defer binding.Release()

	matched := false

	scanErr := vs.walkSessions(binding, func(sessionIdx int, control SessionControl) (bool, error) {
		identifier, err := control.InstanceIdentifier()
		if err != nil {
			vs.logger.Warnw("Failed to get session instance identifier", "sessionIdx", sessionIdx, "error", err)
			return false, fmt.Errorf("get session %d instance identifier: %w", sessionIdx, err)
		}

		if ProgramNameFromIdentifier(identifier) != programName {
			return false, nil
		}

		vs.logger.Debugw("Found matching session", "sessionIdx", sessionIdx, "identifier", identifier)

		volume, err := control.SimpleVolume()
		if err != nil {
			vs.logger.Warnw("Failed to get session simple volume", "sessionIdx", sessionIdx, "error", err)
			return false, fmt.Errorf("get session %d simple volume: %w", sessionIdx, err)
		}
		defer volume.Release()

		if err := volume.SetMasterVolume(volumeLevel); err != nil {
			vs.logger.Warnw("Failed to set session volume", "sessionIdx", sessionIdx, "error", err)
			return false, fmt.Errorf("set session %d volume: %w", sessionIdx, err)
		}

		matched = true
		return true, nil
	})

	if matched {
		vs.logger.Infow("Adjusted program volume", "program", programName, "volume", fmt.Sprintf("%.2f", volumeLevel))
		return nil
	}

	if scanErr != nil {
		return fmt.Errorf("%w: %s: %w", ErrProgramNotFound, programName, scanErr)
	}

	vs.logger.Debugw("No session matched program", "program", programName)
	return fmt.Errorf("%w: %s", ErrProgramNotFound, programName)
}

// walkSessions acquires the default render endpoint, its session manager and session enumerator,
// then hands each session to visit in enumeration order. Everything acquired here is released
// before returning, in reverse order. A failure above the session level ends the walk; a failure on
// one session only skips it. All failures are collected into the returned error
func (vs *VolumeSetter) walkSessions(binding Binding, visit visitFunc) error {
	endpoint, err := binding.DefaultRenderEndpoint()
	if err != nil {
		vs.logger.Warnw("Failed to get default render endpoint", "error", err)
		return fmt.Errorf("get default render endpoint: %w", err)
	}
	defer endpoint.Release()

	manager, err := endpoint.SessionManager()
	if err != nil {
		vs.logger.Warnw("Failed to get session manager", "error", err)
		return fmt.Errorf("get session manager: %w", err)
	}
	defer manager.Release()

	sessions, err := manager.Sessions()
	if err != nil {
		vs.logger.Warnw("Failed to get session enumerator", "error", err)
		return fmt.Errorf("get session enumerator: %w", err)
	}
	defer sessions.Release()

	sessionCount, err := sessions.Count()
	if err != nil {
		vs.logger.Warnw("Failed to get session count", "error", err)
		return fmt.Errorf("get session count: %w", err)
	}

	vs.logger.Debugw("Got session count from session enumerator", "count", sessionCount)

	var errs error

	for sessionIdx := 0; sessionIdx < sessionCount; sessionIdx++ {
		stop, err := vs.visitSession(sessions, sessionIdx, visit)
		errs = multierr.Append(errs, err)

		if stop {
			break
		}
	}

	return errs
}

func (vs *VolumeSetter) visitSession(sessions SessionEnumerator, sessionIdx int, visit visitFunc) (bool, error) {
	control, err := sessions.Session(sessionIdx)
	if err != nil {
		vs.logger.Warnw("Failed to get session from session enumerator", "sessionIdx", sessionIdx, "error", err)
		return false, fmt.Errorf("get session %d: %w", sessionIdx, err)
	}
	defer control.Release()

	return visit(sessionIdx, control)
}
