// Package quality computes statistical health screens over generator
// output. The metrics catch gross defects (stuck bytes, skewed
// distributions, repeating structure); they are not a substitute for a
// full randomness test battery.
package quality

import (
	"math"

	"github.com/klauspost/compress/zstd"
)

// autocorrWindow caps the lag-1 scan so Analyze stays cheap on large
// streams.
const autocorrWindow = 50000

// Report summarizes one analyzed byte stream.
type Report struct {
	Length           int     `json:"length"`
	Mean             float64 `json:"mean"`              // ideal 127.5
	ChiSquare        float64 `json:"chi_square"`        // ideal ~255 (df=255)
	MinFreq          int     `json:"min_freq"`
	MaxFreq          int     `json:"max_freq"`
	FreqRange        int     `json:"freq_range"`
	ShannonEntropy   float64 `json:"shannon_entropy"`   // ideal 8.0 bits/byte
	Autocorrelation  float64 `json:"autocorrelation"`   // lag-1 match rate, ideal 1/256
	CompressionRatio float64 `json:"compression_ratio"` // ~1.0 for sound output
}

// Analyze computes the report for data. Empty input yields a zero report.
func Analyze(data []byte) Report {
	if len(data) == 0 {
		return Report{}
	}

	var counts [256]int
	sum := 0
	for _, b := range data {
		counts[b]++
		sum += int(b)
	}

	expected := float64(len(data)) / 256.0
	chi := 0.0
	for _, c := range counts {
		diff := float64(c) - expected
		chi += diff * diff / expected
	}

	minFreq, maxFreq := counts[0], counts[0]
	for _, c := range counts[1:] {
		if c < minFreq {
			minFreq = c
		}
		if c > maxFreq {
			maxFreq = c
		}
	}

	shannon := 0.0
	for _, c := range counts {
		if c > 0 {
			p := float64(c) / float64(len(data))
			shannon -= p * math.Log2(p)
		}
	}

	window := len(data)
	if window > autocorrWindow {
		window = autocorrWindow
	}
	autocorr := 0.0
	if window > 1 {
		matches := 0
		for i := 1; i < window; i++ {
			if data[i] == data[i-1] {
				matches++
			}
		}
		autocorr = float64(matches) / float64(window-1)
	}

	return Report{
		Length:           len(data),
		Mean:             float64(sum) / float64(len(data)),
		ChiSquare:        chi,
		MinFreq:          minFreq,
		MaxFreq:          maxFreq,
		FreqRange:        maxFreq - minFreq,
		ShannonEntropy:   shannon,
		Autocorrelation:  autocorr,
		CompressionRatio: CompressionRatio(data),
	}
}

// CompressionRatio returns compressed size over input size under zstd.
// Sound generator output is effectively incompressible, landing at or
// slightly above 1.0; ratios well below 1.0 mean the stream has structure.
func CompressionRatio(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return 0
	}
	defer enc.Close()
	compressed := enc.EncodeAll(data, make([]byte, 0, len(data)/2))
	return float64(len(compressed)) / float64(len(data))
}
