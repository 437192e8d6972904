package analysis

import (
	"math"
	"testing"
)

func sine(freqHz float64, sampleRate, n int, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freqHz*float64(i)/float64(sampleRate))
	}
	return out
}

func TestDescribeSine(t *testing.T) {
	const sr = 8000
	x := sine(440, sr, sr, 0.5)
	s := Describe(x, sr)

	if math.Abs(s.Peak-0.5) > 1e-3 {
		t.Fatalf("peak = %f, want 0.5", s.Peak)
	}
	wantRMS := 0.5 / math.Sqrt2
	if math.Abs(s.RMS-wantRMS) > 1e-3 {
		t.Fatalf("rms = %f, want %f", s.RMS, wantRMS)
	}
	if math.Abs(s.DurationS-1.0) > 1e-9 {
		t.Fatalf("duration = %f, want 1.0", s.DurationS)
	}
	// A pure tone's centroid sits at the tone within a couple of bins.
	if math.Abs(s.CentroidHz-440) > 3*float64(sr)/analysisWindow {
		t.Fatalf("centroid = %f Hz, want ~440", s.CentroidHz)
	}
}

func TestDescribeEmpty(t *testing.T) {
	s := Describe(nil, 8000)
	if s.Peak != 0 || s.RMS != 0 || s.CentroidHz != 0 || s.DurationS != 0 {
		t.Fatalf("empty summary not zero: %+v", s)
	}
}

func TestPeakNearFindsTone(t *testing.T) {
	const sr = 8000
	x := sine(440, sr, sr, 0.5)
	freq, mag := PeakNear(x, sr, 440, 50)
	if mag <= 0 {
		t.Fatal("no peak found")
	}
	binHz := float64(sr) / float64(2*analysisWindow)
	if math.Abs(freq-440) > 2*binHz {
		t.Fatalf("peak at %f Hz, want ~440", freq)
	}

	// The search stays inside its window: no peak reported far from a tone.
	_, magFar := PeakNear(x, sr, 2000, 100)
	if magFar > mag/10 {
		t.Fatalf("magnitude %f far from the tone rivals the peak %f", magFar, mag)
	}
}

func TestEstimateLag(t *testing.T) {
	const n = 1024
	a := make([]float64, n)
	b := make([]float64, n)
	a[100] = 1
	b[140] = 1 // b lags a by 40 samples

	lag, err := EstimateLag(a, b)
	if err != nil {
		t.Fatalf("EstimateLag: %v", err)
	}
	if lag != 40 {
		t.Fatalf("lag = %d, want 40", lag)
	}

	lag, err = EstimateLag(b, a)
	if err != nil {
		t.Fatalf("EstimateLag: %v", err)
	}
	if lag != -40 {
		t.Fatalf("lag = %d, want -40", lag)
	}
}

func TestCrossCorrelateErrors(t *testing.T) {
	if _, err := CrossCorrelate(nil, []float64{1}); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := CrossCorrelate([]float64{1}, nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}
