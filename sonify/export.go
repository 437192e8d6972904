package sonify

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-sonify/gap"
	"github.com/cwbudde/algo-sonify/wave"
)

const renderBlockFrames = 512

// Render drives a fresh Renderer over the Program's full window and returns
// the stereo result. Rendering is isolated per call, so an export can run
// while the same Program plays live.
func Render(prog *Program) (*wave.Buffer, error) {
	r, err := NewRenderer(prog)
	if err != nil {
		return nil, err
	}

	samples := make([]float32, 0, r.TotalFrames()*2)
	for !r.Done() {
		block := r.Process(renderBlockFrames)
		if len(block) == 0 {
			break
		}
		samples = append(samples, block...)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("render: empty program window")
	}
	return wave.FromStereoInterleaved(samples, prog.SampleRate), nil
}

// ExportWAV renders the Program and writes the result to path. The write is
// atomic; a render or encode failure leaves no artifact behind.
func ExportWAV(path string, prog *Program) error {
	buf, err := Render(prog)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := wave.WriteFile(path, buf); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// ExportFileName returns the canonical artifact name for a gap,
// Gap_<originTitle>_to_<targetTitle>.wav, with path-hostile runes replaced
// by underscores.
func ExportFileName(g *gap.Gap) string {
	return fmt.Sprintf("Gap_%s_to_%s.wav", sanitizeTitle(g.Origin.Title), sanitizeTitle(g.Target.Title))
}

func sanitizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
