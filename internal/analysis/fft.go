package analysis

import (
	"errors"
	"math"
	"math/cmplx"
)

var ErrTooShort = errors.New("analysis: series too short")

// FFT is a radix-2 transform; len(data) must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns the magnitude of the first half of the transform.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// NextPow2 is the smallest power of two >= n.
func NextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// Spectrum is the one-sided power spectrum of a uniformly sampled series.
type Spectrum struct {
	Power []float64
	// Resolution is the frequency step between bins, in Hz.
	Resolution float64
}

// Frequency of bin i.
func (s Spectrum) Frequency(i int) float64 { return float64(i) * s.Resolution }

// Dominant returns the strongest non-DC bin and its frequency. ok is false
// when the spectrum has no such bin.
func (s Spectrum) Dominant() (freq, power float64, ok bool) {
	best := 0
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > power {
			best, power = i, s.Power[i]
		}
	}
	if best == 0 {
		return 0, 0, false
	}
	return s.Frequency(best), power, true
}

// Analyze removes the mean from values, zero-pads to a power of two and
// transforms. interval is the time between samples. Non-finite samples are
// replaced by the mean.
func Analyze(values []float64, interval float64) (Spectrum, error) {
	if len(values) < 4 || interval <= 0 {
		return Spectrum{}, ErrTooShort
	}

	mean, count := 0.0, 0
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			mean += v
			count++
		}
	}
	if count == 0 {
		return Spectrum{}, ErrTooShort
	}
	mean /= float64(count)

	n := NextPow2(len(values))
	padded := make([]float64, n)
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		padded[i] = v - mean
	}

	return Spectrum{
		Power:      PowerSpectrum(padded),
		Resolution: 1 / (float64(n) * interval),
	}, nil
}
