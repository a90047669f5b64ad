package appvol

import "strings"

const (
	// windows session identifiers embed a device path, pulse ones are built with forward slashes
	identifierPathSeparators = `\/`

	// everything from here on is a parameter suffix, e.g. "app.exe%b{guid}|1%b1234"
	identifierParameterDelimiter = '%'
)

// ProgramNameFromIdentifier extracts the bare executable file name from a session instance identifier.
// If the identifier has no path separator it is used whole, and the parameter suffix is cut only
// after the directory part has been stripped.
func ProgramNameFromIdentifier(identifier string) string {
	name := identifier

	if idx := strings.LastIndexAny(identifier, identifierPathSeparators); idx >= 0 {
		name = identifier[idx+1:]
	}

	if idx := strings.IndexByte(name, identifierParameterDelimiter); idx >= 0 {
		name = name[:idx]
	}

	return name
}
