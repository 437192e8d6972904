package sonify

import (
	"math"
	"testing"
)

func TestRenderWindow(t *testing.T) {
	g := pairGap(t, []string{"x", "y"}, []string{"y"}, 10)
	prog := buildTestProgram(t, g, testConfig())

	buf, err := Render(prog)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(buf.Channels) != 2 {
		t.Fatalf("got %d channels, want 2", len(buf.Channels))
	}
	wantFrames := int(math.Round(prog.DurationS * float64(prog.SampleRate)))
	if buf.Frames() != wantFrames {
		t.Fatalf("got %d frames, want %d", buf.Frames(), wantFrames)
	}

	var peak float64
	for _, ch := range buf.Channels {
		for i, v := range ch {
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				t.Fatalf("non-finite sample at %d", i)
			}
			if a := math.Abs(f); a > peak {
				peak = a
			}
		}
	}
	if peak == 0 {
		t.Fatal("rendered silence")
	}

	// The end fade closes the window.
	last := buf.Frames() - 1
	for c, ch := range buf.Channels {
		if a := math.Abs(float64(ch[last])); a > 1e-2 {
			t.Fatalf("channel %d final sample %f, want ~0 after the end fade", c, a)
		}
	}
}

func TestRenderStaysWithinHeadroom(t *testing.T) {
	g := pairGap(t, []string{"x", "y"}, []string{"y"}, 10)
	prog := buildTestProgram(t, g, testConfig())

	buf, err := Render(prog)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var peak float64
	over := 0
	for _, ch := range buf.Channels {
		for _, v := range ch {
			a := math.Abs(float64(v))
			if a > peak {
				peak = a
			}
			if a > 1 {
				over++
			}
		}
	}
	if over > 0 {
		t.Fatalf("%d samples beyond full scale (peak %f)", over, peak)
	}
	if peak > 1 {
		t.Fatalf("rendered peak = %f, want <= 1", peak)
	}
}

func TestReverbBusNormalizesImpulseEnergy(t *testing.T) {
	input := make([]float32, reverbPartSize)
	for i := range input {
		input[i] = float32(math.Sin(2 * math.Pi * float64(i) / 32))
	}

	// A unit impulse already has per-channel energy 1; the wet path must
	// reproduce the input so the mix is exactly wet+dry.
	unit := make([]float32, 64)
	unit[0] = 1
	bus, err := newReverbBus(unit, unit)
	if err != nil {
		t.Fatalf("newReverbBus: %v", err)
	}
	out := bus.process(input, 0.6, 0.4)
	for i, v := range input {
		want := float64(v)
		if math.Abs(float64(out[i*2])-want) > 1e-4 || math.Abs(float64(out[i*2+1])-want) > 1e-4 {
			t.Fatalf("unit-impulse mix at %d = (%f, %f), want %f", i, out[i*2], out[i*2+1], want)
		}
	}

	// Scaling the impulse must not change the rendered mix.
	loud := make([]float32, 64)
	loud[0] = 10
	loudBus, err := newReverbBus(loud, loud)
	if err != nil {
		t.Fatalf("newReverbBus: %v", err)
	}
	loudOut := loudBus.process(input, 0.6, 0.4)
	for i := range out {
		if math.Abs(float64(out[i]-loudOut[i])) > 1e-4 {
			t.Fatalf("sample %d differs under impulse scaling: %f vs %f", i, out[i], loudOut[i])
		}
	}
}

func TestRenderDeterministicUnderSeeds(t *testing.T) {
	g := pairGap(t, []string{"x", "y"}, []string{"y"}, 10)
	prog1 := buildTestProgram(t, g, testConfig())
	prog2 := buildTestProgram(t, g, testConfig())

	a, err := Render(prog1)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := Render(prog2)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for c := range a.Channels {
		for i := range a.Channels[c] {
			if a.Channels[c][i] != b.Channels[c][i] {
				t.Fatalf("channel %d sample %d differs between seeded renders", c, i)
			}
		}
	}
}

func TestRendererFadeOut(t *testing.T) {
	g := pairGap(t, []string{"x", "y"}, []string{"y"}, 10)
	prog := buildTestProgram(t, g, testConfig())

	r, err := NewRenderer(prog)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	const block = 256
	for i := 0; i < 4; i++ {
		if out := r.Process(block); len(out) != block*2 {
			t.Fatalf("block %d returned %d samples, want %d", i, len(out), block*2)
		}
	}

	r.FadeOut()
	fadeFrames := int(0.05*float64(prog.SampleRate)) + block
	var drained int
	for !r.Done() {
		out := r.Process(block)
		drained += len(out) / 2
		if drained > fadeFrames+block {
			t.Fatalf("renderer still producing %d frames after the stop fade", drained)
		}
	}
	if out := r.Process(block); out != nil {
		t.Fatal("Process returned samples after Done")
	}
}

func TestRendererRejectsBadPrograms(t *testing.T) {
	if _, err := NewRenderer(nil); err == nil {
		t.Fatal("expected error for nil program")
	}
	if _, err := NewRenderer(&Program{SampleRate: 0}); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	prog := &Program{SampleRate: 8000, DurationS: 1}
	if _, err := NewRenderer(prog); err == nil {
		t.Fatal("expected error for missing reverb impulse")
	}
}

func TestStepEnvelopeDecay(t *testing.T) {
	coef := decayCoefficient(0.25, 1e-3, 0.14, 8000)
	if coef <= 0 || coef >= 1 {
		t.Fatalf("decay coefficient = %f, want in (0, 1)", coef)
	}
	// After the full decay span the level sits at the floor within a few
	// percent (the fast-exp approximation bounds the error).
	level := 0.25 - 1e-3
	for i := 0; i < int(0.14*8000); i++ {
		level *= coef
	}
	if level > 0.05*0.25 {
		t.Fatalf("residual level %f after the decay span", level)
	}
}
