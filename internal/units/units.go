// Package units converts raw byte and hertz counts into human-readable strings.
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"

	"github.com/hiveden/sysintel/internal/platform"
)

// ConversionFactor is the base used when scaling byte counts.
type ConversionFactor int

const (
	Decimal ConversionFactor = 1000
	Binary  ConversionFactor = 1024
)

// NotAvailable marks a value the system could not report.
const NotAvailable = "NA"

// ErrInvalidInput is returned when a value cannot be coerced to an integer.
var ErrInvalidInput = errors.New("invalid input")

var (
	decimalLabels = []string{"B", "KB", "MB", "GB", "TB"}
	binaryLabels  = []string{"B", "KiB", "MiB", "GiB", "TiB"}
	hertzLabels   = []string{"Hz", "kHz", "MHz", "GHz", "THz"}
)

// decimalClasses report file and memory sizes in SI units.
var decimalClasses = map[platform.Class]bool{
	platform.Darwin: true,
	platform.Ubuntu: true,
}

// DetermineConversionFactor returns the unit base used by the given OS class.
func DetermineConversionFactor(class platform.Class) ConversionFactor {
	if decimalClasses[class] {
		return Decimal
	}
	return Binary
}

// FormatBytes renders a byte count using the unit base of the given OS class.
// Empty, zero and NotAvailable values render as "". Strings that are not
// numeric are assumed to be formatted already and are returned unchanged.
func FormatBytes(size any, class platform.Class) string {
	var value float64
	switch v := size.(type) {
	case nil:
		return ""
	case bool:
		return fmt.Sprint(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == NotAvailable {
			return ""
		}
		f, err := cast.ToFloat64E(s)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return v
		}
		value = f
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Sprint(v)
		}
		value = f
	}
	if value == 0 {
		return ""
	}

	factor := float64(DetermineConversionFactor(class))
	labels := binaryLabels
	if factor == float64(Decimal) {
		labels = decimalLabels
	}
	i := 0
	for value >= factor && i < len(labels)-1 {
		value /= factor
		i++
	}
	return formatNumber(value) + " " + labels[i]
}

// formatNumber prints whole values without a fraction and everything else
// with at most two decimals.
func formatNumber(value float64) string {
	if value == math.Trunc(value) {
		return strconv.FormatFloat(value, 'f', 0, 64)
	}
	s := strconv.FormatFloat(math.Round(value*100)/100, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// HzToHumanString renders a frequency in hertz with two decimals and the
// largest unit that keeps the value below 1000.
func HzToHumanString(hz any) (string, error) {
	if hz == nil {
		return "", fmt.Errorf("%w: frequency is nil", ErrInvalidInput)
	}
	var n int64
	switch v := hz.(type) {
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		n = parsed
	case uint:
		if uint64(v) > math.MaxInt64 {
			return "", fmt.Errorf("%w: %d overflows int64", ErrInvalidInput, v)
		}
		n = int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return "", fmt.Errorf("%w: %d overflows int64", ErrInvalidInput, v)
		}
		n = int64(v)
	default:
		parsed, err := cast.ToInt64E(v)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		n = parsed
	}
	value := float64(n)
	i := 0
	for math.Abs(value) >= 1000 && i < len(hertzLabels)-1 {
		value /= 1000
		i++
	}
	return fmt.Sprintf("%.2f %s", value, hertzLabels[i]), nil
}

// ParseBytes converts a raw size descriptor such as "32 KiB", "1280 KB" or
// "49152 B" into bytes. The legacy KB and MB suffixes denote binary units in
// CPU cache reports, and a bare number is read as KiB.
func ParseBytes(raw string) (uint64, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == NotAvailable {
		return 0, fmt.Errorf("%w: empty size", ErrInvalidInput)
	}
	switch {
	case strings.HasSuffix(s, "KB"):
		s = strings.TrimSuffix(s, "KB") + "KiB"
	case strings.HasSuffix(s, "MB"):
		s = strings.TrimSuffix(s, "MB") + "MiB"
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		s += " KiB"
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse size %q: %w", raw, err)
	}
	return n, nil
}
