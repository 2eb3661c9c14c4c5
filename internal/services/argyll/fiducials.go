package argyll

import (
	"fmt"
	"strconv"
	"strings"
)

// Fiducials holds the four chart corner marks as pixel coordinates in
// top-left, top-right, bottom-right, bottom-left order.
type Fiducials [8]float64

// ParseFiducials parses eight comma-separated numeric values.
func ParseFiducials(value string) (Fiducials, error) {
	var f Fiducials
	parts := strings.Split(value, ",")
	if len(parts) != 8 {
		return f, fmt.Errorf("expected 8 comma-separated coordinates (TL, TR, BR, BL as x,y pairs), got %d values", len(parts))
	}
	for i, part := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return f, fmt.Errorf("coordinate %d: %q is not numeric", i+1, strings.TrimSpace(part))
		}
		if n < 0 {
			return f, fmt.Errorf("coordinate %d: %v is negative", i+1, n)
		}
		f[i] = n
	}
	return f, nil
}

// Arg renders the coordinates as the forced-fiducial flag value.
func (f Fiducials) Arg() string {
	parts := make([]string, len(f))
	for i, v := range f {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}
