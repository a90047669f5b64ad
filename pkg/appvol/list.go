package appvol

import (
	"fmt"

	"github.com/nik9play/appvol/pkg/appvol/util"
)

// SessionInfo describes one audio session on the default output device
type SessionInfo struct {
	Index       int
	Identifier  string
	ProgramName string
	ProcessID   uint32
	ProcessName string
	Volume      float32
}

func (si SessionInfo) String() string {
	return fmt.Sprintf("<session: %s (pid %d), vol: %.2f>", si.ProgramName, si.ProcessID, si.Volume)
}

// ListSessions returns every session on the default output device, in enumeration order.
// Sessions that can't be fully read are left out and their failures are returned alongside the rest
func (vs *VolumeSetter) ListSessions() ([]SessionInfo, error) {
	binding, err := vs.subsystem.Open()
	if err != nil {
		vs.logger.Warnw("Failed to bind audio subsystem", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSubsystemInit, err)
	}
	defer binding.Release()

	infos := []SessionInfo{}

	err = vs.walkSessions(binding, func(sessionIdx int, control SessionControl) (bool, error) {
		info, err := vs.describeSession(sessionIdx, control)
		if err != nil {
			return false, err
		}

		infos = append(infos, info)
		return false, nil
	})

	vs.logger.Debugw("Listed audio sessions", "count", len(infos))

	return infos, err
}

func (vs *VolumeSetter) describeSession(sessionIdx int, control SessionControl) (SessionInfo, error) {
	info := SessionInfo{Index: sessionIdx}

	identifier, err := control.InstanceIdentifier()
	if err != nil {
		vs.logger.Warnw("Failed to get session instance identifier", "sessionIdx", sessionIdx, "error", err)
		return info, fmt.Errorf("get session %d instance identifier: %w", sessionIdx, err)
	}

	info.Identifier = identifier
	info.ProgramName = ProgramNameFromIdentifier(identifier)

	// the system sounds session has no owning process and reports an error here, that's fine
	if pid, err := control.ProcessID(); err != nil {
		vs.logger.Debugw("Failed to get session pid", "sessionIdx", sessionIdx, "error", err)
	} else {
		info.ProcessID = pid

		if info.ProcessName, err = util.ProcessName(pid); err != nil {
			vs.logger.Debugw("Failed to find session process", "pid", pid, "error", err)
		}
	}

	volume, err := control.SimpleVolume()
	if err != nil {
		vs.logger.Warnw("Failed to get session simple volume", "sessionIdx", sessionIdx, "error", err)
		return info, fmt.Errorf("get session %d simple volume: %w", sessionIdx, err)
	}
	defer volume.Release()

	level, err := volume.MasterVolume()
	if err != nil {
		vs.logger.Warnw("Failed to get session volume", "sessionIdx", sessionIdx, "error", err)
		return info, fmt.Errorf("get session %d volume: %w", sessionIdx, err)
	}

	info.Volume = util.NormalizeScalar(level)

	return info, nil
}
