package caps

import (
	"math"
	"math/bits"
	"strconv"
	"time"
)

const (
	maxFractionTerms = 30
	maxDenominator   = 1 << 20
	fractionEpsilon  = 1e-9
)

// Fraction is a rational value such as a framerate (30000/1001).
type Fraction struct {
	Num int
	Den int
}

// Float64 returns the fraction as a float, 0 if the denominator is 0.
func (f Fraction) Float64() float64 {
	if f.Den == 0 {
		return 0
	}
	return float64(f.Num) / float64(f.Den)
}

// Frame returns the index of the frame shown at d when f is a framerate.
// Engine timestamps are truncated to whole nanoseconds, so a frame start
// can sit just below its exact value; d is taken one nanosecond later to
// keep exact frame starts on their own frame.
func (f Fraction) Frame(d time.Duration) int64 {
	if f.Num <= 0 || f.Den <= 0 || d < 0 {
		return 0
	}
	div := uint64(f.Den) * uint64(time.Second)
	hi, lo := bits.Mul64(uint64(d)+1, uint64(f.Num))
	if hi >= div {
		return math.MaxInt64
	}
	q, _ := bits.Div64(hi, lo, div)
	if q > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(q)
}

// FrameStart returns the start of frame n in seconds when f is a framerate.
func (f Fraction) FrameStart(n int64) float64 {
	if f.Num <= 0 || f.Den <= 0 {
		return 0
	}
	return float64(n) * float64(f.Den) / float64(f.Num)
}

// String formats the fraction as "num/den".
func (f Fraction) String() string {
	return strconv.Itoa(f.Num) + "/" + strconv.Itoa(f.Den)
}

// FractionFromFloat approximates f with a continued fraction expansion,
// stopping at the first convergent within 1e-9 of f.
func FractionFromFloat(f float64) Fraction {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Fraction{Num: 0, Den: 1}
	}
	neg := f < 0
	f = math.Abs(f)

	// h/k are the last two convergents
	h0, h1 := 0.0, 1.0
	k0, k1 := 1.0, 0.0
	x := f
	for range maxFractionTerms {
		a := math.Floor(x)
		h2 := a*h1 + h0
		k2 := a*k1 + k0
		if k2 > maxDenominator || h2 > math.MaxInt32 {
			break
		}
		h0, h1 = h1, h2
		k0, k1 = k1, k2

		if math.Abs(f-h1/k1) < fractionEpsilon {
			break
		}
		rem := x - a
		if rem < fractionEpsilon {
			break
		}
		x = 1 / rem
	}

	if k1 == 0 {
		return Fraction{Num: 0, Den: 1}
	}
	num := int(h1)
	if neg {
		num = -num
	}
	return Fraction{Num: num, Den: int(k1)}
}

// ntscBases are the nominal rates whose broadcast variants run at n*1000/1001.
var ntscBases = []int{24, 30, 48, 60, 120}

// SnapFramerate converts a measured framerate into a fraction, snapping
// values near an NTSC rate (23.976, 29.97, ...) to the exact n*1000/1001.
// Other values are rounded to millihertz first.
func SnapFramerate(fps float64) Fraction {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return Fraction{Num: 0, Den: 1}
	}
	for _, n := range ntscBases {
		if math.Abs(fps-float64(n*1000)/1001) < 0.005 {
			return Fraction{Num: n * 1000, Den: 1001}
		}
	}
	return FractionFromFloat(math.Round(fps*1000) / 1000)
}
