package cal

// Params is a cumulative set of driver tuning parameters in the Gutenprint
// XML naming. Each analyzed .cal file folds a correction into the previous
// estimate, so the struct can be threaded through a sequence of runs.
type Params struct {
	CyanGamma   float64
	CyanDensity float64

	LightCyanValue float64
	LightCyanScale float64
	LightCyanTrans float64

	MagentaGamma   float64
	MagentaDensity float64

	LightMagentaValue float64
	LightMagentaScale float64
	LightMagentaTrans float64

	YellowGamma   float64
	YellowDensity float64

	BlackGamma   float64
	BlackDensity float64

	CompositeGamma float64
}

// Defaults returns the standard Gutenprint starting point.
func Defaults() Params {
	return Params{
		CyanGamma:         1.0,
		CyanDensity:       1.0,
		LightCyanValue:    0.35,
		LightCyanScale:    1.0,
		LightCyanTrans:    0.6,
		MagentaGamma:      1.0,
		MagentaDensity:    1.0,
		LightMagentaValue: 0.35,
		LightMagentaScale: 1.0,
		LightMagentaTrans: 0.6,
		YellowGamma:       1.0,
		YellowDensity:     1.0,
		BlackGamma:        1.0,
		BlackDensity:      1.0,
		CompositeGamma:    1.0,
	}
}

// Estimate folds one parsed .cal file into the parameter set and returns the
// updated copy. The receiver is not modified.
func (p Params) Estimate(f *File) Params {
	next := p

	// Per-channel correction gammas multiply into the running values: if
	// the curve says "apply x^0.5" on top of a current gamma of 1.0, the
	// driver should be told 0.5.
	gammas := map[Channel]float64{}
	for _, ch := range Channels {
		curve, ok := f.Curves[ch]
		if !ok {
			continue
		}
		trimmed := maskedCurve(curve, 0.05, 0.95)
		gammas[ch] = gammaFit(trimmed.Input, trimmed.Output)
	}
	if g, ok := gammas[Cyan]; ok {
		next.CyanGamma *= g
	}
	if g, ok := gammas[Magenta]; ok {
		next.MagentaGamma *= g
	}
	if g, ok := gammas[Yellow]; ok {
		next.YellowGamma *= g
	}
	if g, ok := gammas[Black]; ok {
		next.BlackGamma *= g
	}

	// Composite gamma tracks the average of the chromatic channels.
	if gc, ok1 := gammas[Cyan]; ok1 {
		if gm, ok2 := gammas[Magenta]; ok2 {
			if gy, ok3 := gammas[Yellow]; ok3 {
				next.CompositeGamma *= (gc + gm + gy) / 3.0
			}
		}
	}

	// Light ink split points for channels that carry a light counterpart.
	if curve, ok := f.Curves[Cyan]; ok {
		next.LightCyanValue = lightInkValue(curve, next.LightCyanValue)
	}
	if curve, ok := f.Curves[Magenta]; ok {
		next.LightMagentaValue = lightInkValue(curve, next.LightMagentaValue)
	}

	// Saturated channels get a density reduction.
	for _, ch := range Channels {
		resp, ok := f.Response[ch]
		if !ok {
			continue
		}
		mod := densityModifier(resp)
		switch ch {
		case Cyan:
			next.CyanDensity *= mod
		case Magenta:
			next.MagentaDensity *= mod
		case Yellow:
			next.YellowDensity *= mod
		case Black:
			next.BlackDensity *= mod
		}
	}

	return next
}

// lightInkValue nudges the light ink split point. A correction curve that
// sits below the identity in the highlight zone means the printer lays down
// too much ink there, so the light ink should be defined lighter (higher
// value), and vice versa.
func lightInkValue(curve Curve, current float64) float64 {
	var sum float64
	var n int
	for i := range curve.Input {
		if curve.Input[i] <= 0.6 {
			sum += curve.Output[i] - curve.Input[i]
			n++
		}
	}
	if n == 0 {
		return current
	}
	next := current + (sum/float64(n))*-0.8
	if next < 0.1 {
		next = 0.1
	}
	if next > 0.9 {
		next = 0.9
	}
	return next
}

// densitySaturationSlope is the minimum delta-E slope the top of the tonal
// range must retain. Below it, the channel has stopped gaining density and
// the ink load should come down.
const densitySaturationSlope = 10.0

func densityModifier(resp Curve) float64 {
	n := resp.Len()
	if n < 2 {
		return 1.0
	}
	firstTop := -1
	for i := range resp.Input {
		if resp.Input[i] > 0.9 {
			firstTop = i
			break
		}
	}
	if firstTop < 0 || firstTop == n-1 {
		return 1.0
	}
	run := resp.Input[n-1] - resp.Input[firstTop]
	if run <= 0 {
		return 1.0
	}
	slope := (resp.Output[n-1] - resp.Output[firstTop]) / run
	if slope < densitySaturationSlope {
		return 0.95
	}
	return 1.0
}

// Entry is one named parameter for reporting.
type Entry struct {
	Name  string
	Value float64
	Note  string
}

// Entries returns the parameters grouped for display, in a stable order.
func (p Params) Entries() []Entry {
	return []Entry{
		{Name: "CyanDensity", Value: p.CyanDensity},
		{Name: "CyanGamma", Value: p.CyanGamma},
		{Name: "LightCyanValue", Value: p.LightCyanValue, Note: "lower uses more light ink"},
		{Name: "LightCyanScale", Value: p.LightCyanScale},
		{Name: "LightCyanTrans", Value: p.LightCyanTrans},
		{Name: "MagentaDensity", Value: p.MagentaDensity},
		{Name: "MagentaGamma", Value: p.MagentaGamma},
		{Name: "LightMagentaValue", Value: p.LightMagentaValue, Note: "lower uses more light ink"},
		{Name: "LightMagentaScale", Value: p.LightMagentaScale},
		{Name: "LightMagentaTrans", Value: p.LightMagentaTrans},
		{Name: "YellowDensity", Value: p.YellowDensity},
		{Name: "YellowGamma", Value: p.YellowGamma},
		{Name: "BlackDensity", Value: p.BlackDensity},
		{Name: "BlackGamma", Value: p.BlackGamma},
		{Name: "CompositeGamma", Value: p.CompositeGamma},
	}
}

// EstimateFiles parses each .cal file in order and folds it into the
// defaults, returning the cumulative estimate.
func EstimateFiles(paths []string) (Params, error) {
	params := Defaults()
	for _, path := range paths {
		parsed, err := ParseFile(path)
		if err != nil {
			return params, err
		}
		params = params.Estimate(parsed)
	}
	return params, nil
}
