// Package sonify realizes gap records as audio. BuildProgram resolves a gap
// and its composed voices into a fully numeric Program; Renderer executes a
// Program block by block against a sample-position clock, which serves both
// the live playback driver and the offline export path from the same graph.
package sonify

import "math"

// scaleNotes is the repeating 8-note scale: A3 B3 C4 D4 E4 G4 A4 B4.
var scaleNotes = [8]float64{220.00, 246.94, 261.63, 293.66, 329.63, 392.00, 440.00, 493.88}

// ScaleFrequency maps a scale index to a frequency in Hz. The index is
// rounded to the nearest integer, wrapped into the 8-note scale and
// transposed by octave = floor(index/8), so ScaleFrequency(i+8) is exactly
// twice ScaleFrequency(i) for any integer i. Non-finite indexes resolve to
// the scale root.
func ScaleFrequency(index float64) float64 {
	if math.IsNaN(index) || math.IsInf(index, 0) {
		index = 0
	}
	i := int(math.Round(index))
	oct := int(math.Floor(float64(i) / 8.0))
	note := i - oct*8
	return scaleNotes[note] * math.Ldexp(1, oct)
}
