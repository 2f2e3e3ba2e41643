package photoconfig

import (
	"fmt"
	"math"
	"strings"
)

// Extract decodes the metadata of one image and normalizes the fields the gallery shows.
// Errors wrap ErrNoMetadata; callers fall back to placeholders.
func Extract(d Decoder, path string) (Fields, error) {
	m, err := d.Decode(path)
	if err != nil {
		return Fields{}, err
	}

	return Fields{
		Camera:       formatCamera(m.Get(TagModel)),
		Aperture:     FormatAperture(m.Get(TagFNumber)),
		ShutterSpeed: FormatShutterSpeed(m.Get(TagExposureTime)),
	}, nil
}

func formatCamera(v Value) string {
	return strings.Trim(v.String(), "\x00")
}

// FormatAperture formats an FNumber value, e.g. "28/10".
// An absent value returns "".
func FormatAperture(v Value) string {
	if v.Kind == Rational && v.Den == 0 {
		return "Unknown"
	}
	return v.String()
}

// FormatShutterSpeed formats an exposure time as "1/N".
func FormatShutterSpeed(v Value) string {
	switch v.Kind {
	case Rational:
		if v.Num == 0 {
			return UnknownShutterSpeed
		}
		return fmt.Sprintf("1/%d", v.Den/v.Num)
	case Float:
		return reciprocal(v.F)
	case Text:
		if r, ok := parseRational(v.S); ok {
			return FormatShutterSpeed(r)
		}
		if f, ok := parseFloat(v.S); ok {
			return reciprocal(f)
		}
		return UnknownShutterSpeed
	default:
		return UnknownShutterSpeed
	}
}

func reciprocal(f float64) string {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return UnknownShutterSpeed
	}

	r := math.Trunc(1 / f)
	if math.IsInf(r, 0) || r >= math.MaxInt64 || r < math.MinInt64 {
		return UnknownShutterSpeed
	}
	return fmt.Sprintf("1/%d", int64(r))
}
