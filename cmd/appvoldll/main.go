// Command appvoldll builds appvol as a Windows shared library exporting SetProgramVolume:
//
//	go build -buildmode=c-shared -o appvol.dll ./cmd/appvoldll
//
// Set APPVOL_LOG to a build type ("dev" logs to stderr, "release" to logs/appvol-latest-run.log)
// to get logs out of the library. It's silent otherwise.
package main

import (
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/nik9play/appvol/pkg/appvol"
)

const logEnvVar = "APPVOL_LOG"

var (
	setterOnce sync.Once
	setter     *appvol.VolumeSetter
	setterErr  error
)

// required by c-shared, never called
func main() {}

func volumeSetter() (*appvol.VolumeSetter, error) {
	setterOnce.Do(func() {
		logger := zap.NewNop().Sugar()

		if buildType, ok := os.LookupEnv(logEnvVar); ok {
			if l, err := appvol.NewLogger(buildType, true); err == nil {
				logger = l
			}
		}

		subsystem, err := appvol.NewSubsystem(logger)
		if err != nil {
			setterErr = err
			return
		}

		setter, setterErr = appvol.NewVolumeSetter(logger, subsystem)
	})

	return setter, setterErr
}

func setProgramVolume(programName *string, volumeLevel float32) appvol.Status {
	if programName == nil {
		return appvol.StatusInvalidArgument
	}

	vs, err := volumeSetter()
	if err != nil {
		return appvol.StatusSubsystemInitFailed
	}

	return vs.SetProgramVolume(*programName, volumeLevel)
}
