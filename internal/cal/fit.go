package cal

import "math"

// gammaFit fits output = input^g in the log domain by least squares and
// returns g. Samples at or near zero on either axis are skipped since their
// logs are undefined; with fewer than two usable samples the fit degrades
// to the identity gamma.
func gammaFit(input, output []float64) float64 {
	var xs, ys []float64
	for i := range input {
		if input[i] > 1e-4 && output[i] > 1e-4 {
			xs = append(xs, math.Log(input[i]))
			ys = append(ys, math.Log(output[i]))
		}
	}
	g, ok := regressionSlope(xs, ys)
	if !ok {
		return 1.0
	}
	return g
}

// linearSlope fits output = s*input + b by least squares and returns s.
func linearSlope(input, output []float64) float64 {
	s, ok := regressionSlope(input, output)
	if !ok {
		return 1.0
	}
	return s
}

func regressionSlope(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0, false
	}
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	denom := n*sumXX - sumX*sumX
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	return (n*sumXY - sumX*sumY) / denom, true
}

// maskedCurve returns the samples whose input falls in (lo, hi).
func maskedCurve(c Curve, lo, hi float64) Curve {
	out := Curve{}
	for i := range c.Input {
		if c.Input[i] > lo && c.Input[i] < hi {
			out.Input = append(out.Input, c.Input[i])
			out.Output = append(out.Output, c.Output[i])
		}
	}
	return out
}
