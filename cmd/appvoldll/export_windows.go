package main

import "C"

import (
	"golang.org/x/sys/windows"
)

// SetProgramVolume sets the volume of the first audio session whose executable file name equals
// programName (a NUL-terminated UTF-16 string). Returns 0 on success, 1 if no session matched,
// -1 for a null name or a volume outside [0.0, 1.0], -2 if the audio subsystem couldn't be initialized
//
//export SetProgramVolume
func SetProgramVolume(programName *uint16, volumeLevel float32) int32 {
	if programName == nil {
		return int32(setProgramVolume(nil, volumeLevel))
	}

	name := windows.UTF16PtrToString(programName)

	return int32(setProgramVolume(&name, volumeLevel))
}
