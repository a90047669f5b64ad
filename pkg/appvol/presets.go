package appvol

import (
	"github.com/thoas/go-funk"
)

// PresetResult is the outcome of applying a single preset
type PresetResult struct {
	Program string
	Volume  float32
	Status  Status
	Err     error
}

// ApplyPresets sets each preset's program to its volume, in configured order.
// When a program appears more than once, it is applied once, at its position of first appearance,
// with the volume of its last entry
func (vs *VolumeSetter) ApplyPresets(presets []Preset) []PresetResult {
	if len(presets) == 0 {
		return []PresetResult{}
	}

	programs := funk.UniqString(funk.Map(presets, func(p Preset) string {
		return p.Program
	}).([]string))

	volumes := make(map[string]float32, len(programs))
	for _, p := range presets {
		volumes[p.Program] = p.Volume
	}

	results := make([]PresetResult, 0, len(programs))

	for _, program := range programs {
		err := vs.Set(program, volumes[program])

		results = append(results, PresetResult{
			Program: program,
			Volume:  volumes[program],
			Status:  StatusFromError(err),
			Err:     err,
		})
	}

	return results
}
