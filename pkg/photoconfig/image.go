package photoconfig

import (
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	Absent Kind = iota
	Rational
	Float
	Text
)

// Value is a raw EXIF tag value as returned by a Decoder.
type Value struct {
	Kind Kind
	Num  int64
	Den  int64
	F    float64
	S    string
}

// RationalValue returns a numerator/denominator pair.
func RationalValue(num, den int64) Value {
	return Value{Kind: Rational, Num: num, Den: den}
}

// FloatValue returns a plain numeric value.
func FloatValue(f float64) Value {
	return Value{Kind: Float, F: f}
}

// TextValue returns a string value.
func TextValue(s string) Value {
	return Value{Kind: Text, S: s}
}

// String returns the default string form of a value.
func (v Value) String() string {
	switch v.Kind {
	case Rational:
		return fmt.Sprintf("%d/%d", v.Num, v.Den)
	case Float:
		return strconv.FormatFloat(v.F, 'f', -1, 64)
	case Text:
		return v.S
	default:
		return ""
	}
}

// Canonical tag names.
const (
	TagModel        = "Model"
	TagFNumber      = "FNumber"
	TagExposureTime = "ExposureTime"
)

// Metadata maps canonical tag names to raw values.
type Metadata map[string]Value

// Get returns the value for a tag, or an Absent value.
func (m Metadata) Get(tag string) Value {
	v, ok := m[tag]
	if !ok {
		return Value{}
	}
	return v
}

// Fields are the normalized fields extracted from one image.
// An empty Camera or Aperture means the field was absent.
type Fields struct {
	Camera       string
	Aperture     string
	ShutterSpeed string
}

// Record describes one image in the gallery descriptor.
type Record struct {
	Src          string `json:"src"`
	Camera       string `json:"camera"`
	Aperture     string `json:"aperture"`
	ShutterSpeed string `json:"shutter_speed"`
}

// Document is the gallery descriptor written to disk.
type Document struct {
	Images []Record `json:"images"`
}
