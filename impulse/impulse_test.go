package impulse

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-sonify/wave"
)

func TestGenerateNoiseLength(t *testing.T) {
	cfg := DefaultNoiseConfig()
	left, right, err := GenerateNoise(cfg)
	if err != nil {
		t.Fatalf("GenerateNoise failed: %v", err)
	}
	want := int(math.Round(cfg.DurationS * float64(cfg.SampleRate)))
	if len(left) != want || len(right) != want {
		t.Fatalf("lengths = %d/%d, want %d", len(left), len(right), want)
	}
}

func TestGenerateNoiseDeterministicPerSeed(t *testing.T) {
	cfg := DefaultNoiseConfig()
	cfg.DurationS = 0.25

	l1, r1, err := GenerateNoise(cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	l2, r2, err := GenerateNoise(cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for i := range l1 {
		if l1[i] != l2[i] || r1[i] != r2[i] {
			t.Fatalf("same seed diverged at sample %d", i)
		}
	}

	cfg.Seed = 99
	l3, _, err := GenerateNoise(cfg)
	if err != nil {
		t.Fatalf("reseeded run: %v", err)
	}
	same := true
	for i := range l1 {
		if l1[i] != l3[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical output")
	}
}

func TestGenerateNoiseEnvelopeBound(t *testing.T) {
	cfg := DefaultNoiseConfig()
	cfg.DurationS = 0.5
	left, right, err := GenerateNoise(cfg)
	if err != nil {
		t.Fatalf("GenerateNoise failed: %v", err)
	}
	n := len(left)
	for j := 0; j < n; j++ {
		bound := math.Pow(1.0-float64(j)/float64(n), cfg.Exponent) + 1e-6
		if a := math.Abs(float64(left[j])); a > bound {
			t.Fatalf("left[%d] = %v exceeds envelope %v", j, a, bound)
		}
		if a := math.Abs(float64(right[j])); a > bound {
			t.Fatalf("right[%d] = %v exceeds envelope %v", j, a, bound)
		}
	}
	if left[n-1] != 0 && math.Abs(float64(left[n-1])) > 1e-9 {
		t.Errorf("tail sample not near silence: %v", left[n-1])
	}
}

func TestGenerateNoiseChannelsDecorrelated(t *testing.T) {
	cfg := DefaultNoiseConfig()
	cfg.DurationS = 0.1
	left, right, err := GenerateNoise(cfg)
	if err != nil {
		t.Fatalf("GenerateNoise failed: %v", err)
	}
	same := true
	for i := range left {
		if left[i] != right[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("left and right channels identical")
	}
}

func TestGenerateNoiseRejectsBadConfig(t *testing.T) {
	cases := []NoiseConfig{
		{SampleRate: 100, DurationS: 1, Exponent: 3},
		{SampleRate: 44100, DurationS: 0, Exponent: 3},
		{SampleRate: 44100, DurationS: 1, Exponent: 0},
	}
	for i, cfg := range cases {
		if _, _, err := GenerateNoise(cfg); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestLoadWAVRoundTrip(t *testing.T) {
	const sr = 44100
	const frames = 512
	left := make([]float32, frames)
	right := make([]float32, frames)
	for i := range left {
		left[i] = float32(math.Sin(2*math.Pi*440*float64(i)/sr)) * 0.5
		right[i] = float32(math.Cos(2*math.Pi*440*float64(i)/sr)) * 0.5
	}
	path := filepath.Join(t.TempDir(), "ir.wav")
	err := wave.WriteFile(path, &wave.Buffer{SampleRate: sr, Channels: [][]float32{left, right}})
	if err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	gotL, gotR, err := LoadWAV(path, sr)
	if err != nil {
		t.Fatalf("LoadWAV failed: %v", err)
	}
	if len(gotL) != frames || len(gotR) != frames {
		t.Fatalf("frames = %d/%d, want %d", len(gotL), len(gotR), frames)
	}
	for i := 0; i < frames; i++ {
		if math.Abs(float64(gotL[i]-left[i])) > 2e-4 {
			t.Fatalf("left[%d] = %v, want %v", i, gotL[i], left[i])
		}
	}
}

func TestLoadWAVMonoFeedsBothChannels(t *testing.T) {
	const sr = 44100
	mono := make([]float32, 256)
	for i := range mono {
		mono[i] = float32(i%7) / 10
	}
	path := filepath.Join(t.TempDir(), "mono.wav")
	if err := wave.WriteFile(path, wave.FromMono(mono, sr)); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	left, right, err := LoadWAV(path, sr)
	if err != nil {
		t.Fatalf("LoadWAV failed: %v", err)
	}
	for i := range left {
		if left[i] != right[i] {
			t.Fatalf("mono load split at %d: %v vs %v", i, left[i], right[i])
		}
	}
}

func TestLoadWAVResamples(t *testing.T) {
	const srcRate = 22050
	const dstRate = 44100
	const frames = 800
	mono := make([]float32, frames)
	for i := range mono {
		mono[i] = float32(math.Sin(2 * math.Pi * 220 * float64(i) / srcRate) * 0.4)
	}
	path := filepath.Join(t.TempDir(), "lowrate.wav")
	if err := wave.WriteFile(path, wave.FromMono(mono, srcRate)); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	left, _, err := LoadWAV(path, dstRate)
	if err != nil {
		t.Fatalf("LoadWAV failed: %v", err)
	}
	want := frames * dstRate / srcRate
	if len(left) < want*9/10 || len(left) > want*11/10 {
		t.Fatalf("resampled length = %d, want about %d", len(left), want)
	}
}
