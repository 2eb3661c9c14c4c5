package cal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gamut/internal/services"
)

// Channel identifies one ink channel column in a .cal data block.
type Channel int

const (
	Cyan Channel = iota
	Magenta
	Yellow
	Black
)

var channelNames = map[Channel]string{
	Cyan:    "cyan",
	Magenta: "magenta",
	Yellow:  "yellow",
	Black:   "black",
}

func (c Channel) String() string {
	if name, ok := channelNames[c]; ok {
		return name
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// Channels lists the ink channels in .cal column order.
var Channels = []Channel{Cyan, Magenta, Yellow, Black}

// Curve is one channel's table of (nominal input, output) samples, both
// normalized to [0,1] for calibration curves. Delta-E response curves keep
// the same input axis but carry delta-E magnitudes on the output axis.
type Curve struct {
	Input  []float64
	Output []float64
}

// Len returns the number of samples.
func (c Curve) Len() int { return len(c.Input) }

// File holds the parsed contents of one .cal file.
type File struct {
	// Curves maps each channel to its device calibration curve.
	Curves map[Channel]Curve
	// Response maps each channel to its expected delta-E response, when the
	// file carries that block. May be empty for minimal files.
	Response map[Channel]Curve
}

const (
	descriptorCurves   = `DESCRIPTOR "Argyll Device Calibration Curves"`
	descriptorResponse = `DESCRIPTOR "Argyll Output Calibration Expected DE Response"`
)

// ParseFile reads and parses a .cal file from disk.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open calibration file: %w", err)
	}
	defer f.Close()
	parsed, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return parsed, nil
}

// Parse reads a .cal stream. Each DESCRIPTOR line switches the active block;
// data rows are whitespace-separated columns of input followed by one value
// per channel. Header and format lines outside data rows are skipped.
func Parse(r io.Reader) (*File, error) {
	var (
		curveRows    [][]float64
		responseRows [][]float64
		block        string
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.Contains(line, descriptorCurves):
			block = "curves"
			continue
		case strings.Contains(line, descriptorResponse):
			block = "response"
			continue
		case strings.HasPrefix(line, "END_DATA_FORMAT"):
			continue
		case strings.HasPrefix(line, "END_DATA"):
			block = ""
			continue
		}
		if block == "" || !startsNumeric(line) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < len(Channels)+1 {
			return nil, fmt.Errorf("%w: line %d: expected %d columns, got %d",
				services.ErrValidation, lineNo, len(Channels)+1, len(fields))
		}
		row := make([]float64, len(Channels)+1)
		for i := range row {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad value %q", services.ErrValidation, lineNo, fields[i])
			}
			row[i] = v
		}
		switch block {
		case "curves":
			curveRows = append(curveRows, row)
		case "response":
			responseRows = append(responseRows, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read calibration data: %w", err)
	}
	if len(curveRows) == 0 {
		return nil, fmt.Errorf("%w: no device calibration curve data found", services.ErrValidation)
	}

	return &File{
		Curves:   rowsToCurves(curveRows),
		Response: rowsToCurves(responseRows),
	}, nil
}

func startsNumeric(line string) bool {
	c := line[0]
	return (c >= '0' && c <= '9') || c == '.' || c == '-'
}

func rowsToCurves(rows [][]float64) map[Channel]Curve {
	curves := make(map[Channel]Curve, len(Channels))
	if len(rows) == 0 {
		return curves
	}
	for i, ch := range Channels {
		curve := Curve{
			Input:  make([]float64, len(rows)),
			Output: make([]float64, len(rows)),
		}
		for j, row := range rows {
			curve.Input[j] = row[0]
			curve.Output[j] = row[i+1]
		}
		curves[ch] = curve
	}
	return curves
}
