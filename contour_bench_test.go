package contour

import (
	"os"
	"testing"

	"github.com/aouyang1/go-contour/seastate"
	"github.com/goccy/go-json"
	"github.com/pkg/profile"
)

var benchComputeRes *Results

func BenchmarkComputeAllMethods(b *testing.B) {
	// roughly three years of hourly buoy records
	s := seastate.NewSynthetic(26280, 11)
	opt := NewDefaultOptions()
	opt.ReturnFit = true

	e, err := New(opt)
	if err != nil {
		panic(err)
	}

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	for b.Loop() {
		benchComputeRes, err = e.ComputeSampleSeries(s, 100, AllMethods())
		if err != nil {
			panic(err)
		}
	}

	bytes, err := json.MarshalIndent(benchComputeRes.Fit, "", "  ")
	if err != nil {
		panic(err)
	}

	if err := os.WriteFile("benchmark_fit.json", bytes, 0o644); err != nil {
		panic(err)
	}
}

func BenchmarkComputePCA(b *testing.B) {
	s := seastate.NewSynthetic(26280, 11)
	e, err := New(nil)
	if err != nil {
		panic(err)
	}

	b.ResetTimer()
	for b.Loop() {
		benchComputeRes, err = e.ComputeSampleSeries(s, 100, []Method{PCA})
		if err != nil {
			panic(err)
		}
	}
}
