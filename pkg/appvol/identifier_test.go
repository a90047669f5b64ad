package appvol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramNameFromIdentifier(t *testing.T) {
	cases := map[string]struct {
		identifier string
		expected   string
	}{
		"full session identifier": {
			identifier: chromeIdentifier,
			expected:   "chrome.exe",
		},
		"path with parameter suffix": {
			identifier: `C:\path\app.exe%123`,
			expected:   "app.exe",
		},
		"path without suffix": {
			identifier: `C:\a\b\x.exe`,
			expected:   "x.exe",
		},
		"no separator": {
			identifier: "noseparator%7",
			expected:   "noseparator",
		},
		"no separator, no suffix": {
			identifier: "app.exe",
			expected:   "app.exe",
		},
		"empty": {
			identifier: "",
			expected:   "",
		},
		"trailing separator": {
			identifier: `C:\only\path\`,
			expected:   "",
		},
		"percent inside directory": {
			identifier: `C:\100%\dir\app.exe%b1`,
			expected:   "app.exe",
		},
		"system sounds has no path": {
			identifier: systemIdentifier,
			expected:   systemSessionName,
		},
		"forward slashes": {
			identifier: "alsa_output.pci-0000_00_1f.3.analog-stereo/firefox%b42",
			expected:   "firefox",
		},
		"mixed separators": {
			identifier: `C:\games/bin\game.exe%b7`,
			expected:   "game.exe",
		},
		"suffix only": {
			identifier: `C:\dir\%b1`,
			expected:   "",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ProgramNameFromIdentifier(tc.identifier))
		})
	}
}
