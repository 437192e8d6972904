package analysis

import (
	"math"
	"testing"
)

func benchSignal(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / 8000.0
		out[i] = 0.4*math.Sin(2*math.Pi*220*t) + 0.2*math.Sin(2*math.Pi*440*t)
	}
	return out
}

func BenchmarkDescribe(b *testing.B) {
	x := benchSignal(8000 * 4)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Describe(x, 8000)
	}
}

func BenchmarkEstimateLag(b *testing.B) {
	x := benchSignal(8192)
	y := make([]float64, len(x))
	copy(y[64:], x[:len(x)-64])
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := EstimateLag(x, y); err != nil {
			b.Fatal(err)
		}
	}
}
