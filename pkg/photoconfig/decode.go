package photoconfig

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/barasher/go-exiftool"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"k8s.io/klog/v2"
)

// Decoder names accepted by OpenDecoder.
const (
	GoexifDecoder   = "goexif"
	ExiftoolDecoder = "exiftool"
)

// ErrNoMetadata is returned when an image has no readable metadata block.
var ErrNoMetadata = errors.New("no metadata")

var wantTags = []string{TagModel, TagFNumber, TagExposureTime}

// Decoder reads the embedded metadata block of an image file.
type Decoder interface {
	Decode(path string) (Metadata, error)
	Close() error
}

// OpenDecoder returns the named decoder.
func OpenDecoder(name string) (Decoder, error) {
	switch name {
	case GoexifDecoder, "":
		return &Goexif{}, nil
	case ExiftoolDecoder:
		return NewExiftool()
	default:
		return nil, fmt.Errorf("unknown decoder %q", name)
	}
}

// Goexif decodes EXIF from JPEG and TIFF files in-process.
type Goexif struct{}

// Decode implements Decoder.
func (*Goexif) Decode(path string) (m Metadata, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrNoMetadata, err)
	}
	defer f.Close()

	tif, err := readTIFF(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoMetadata, err)
	}
	// goexif sizes buffers from the declared tag counts.
	if err := checkTIFF(tif); err != nil {
		return nil, fmt.Errorf("%w: corrupt exif: %w", ErrNoMetadata, err)
	}

	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("%w: decode panic: %v", ErrNoMetadata, r)
		}
	}()

	x, err := exif.Decode(bytes.NewReader(tif))
	if err != nil {
		if x == nil || exif.IsCriticalError(err) {
			return nil, fmt.Errorf("%w: decode: %w", ErrNoMetadata, err)
		}
		klog.V(1).Infof("partial exif for %s: %v", path, err)
	}

	m = Metadata{}
	for _, name := range wantTags {
		tag, err := x.Get(exif.FieldName(name))
		if err != nil {
			if !exif.IsTagNotPresentError(err) {
				klog.V(1).Infof("%s: %s: %v", path, name, err)
			}
			continue
		}
		v := tagValue(tag)
		klog.V(2).Infof("%s: %q=%v", path, name, v)
		m[name] = v
	}
	return m, nil
}

// Close implements Decoder.
func (*Goexif) Close() error {
	return nil
}

func tagValue(t *tiff.Tag) Value {
	if t.Count == 0 {
		return Value{}
	}

	switch t.Format() {
	case tiff.RatVal:
		num, den, err := t.Rat2(0)
		if err != nil {
			return Value{}
		}
		return RationalValue(num, den)
	case tiff.FloatVal:
		f, err := t.Float(0)
		if err != nil {
			return Value{}
		}
		return FloatValue(f)
	case tiff.IntVal:
		i, err := t.Int64(0)
		if err != nil {
			return Value{}
		}
		return FloatValue(float64(i))
	case tiff.StringVal:
		s, err := t.StringVal()
		if err != nil {
			return Value{}
		}
		return TextValue(s)
	default:
		return Value{}
	}
}

// Exiftool decodes metadata through a stay-open exiftool process.
type Exiftool struct {
	et *exiftool.Exiftool
}

// NewExiftool starts exiftool with numeric output.
func NewExiftool() (*Exiftool, error) {
	et, err := exiftool.NewExiftool(exiftool.NoPrintConversion())
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &Exiftool{et: et}, nil
}

// Decode implements Decoder.
func (e *Exiftool) Decode(path string) (Metadata, error) {
	fis := e.et.ExtractMetadata(path)
	if len(fis) == 0 {
		return nil, fmt.Errorf("%w: exiftool returned nothing", ErrNoMetadata)
	}
	return fromExiftool(fis[0])
}

// Close implements Decoder.
func (e *Exiftool) Close() error {
	return e.et.Close()
}

func fromExiftool(fi exiftool.FileMetadata) (Metadata, error) {
	if fi.Err != nil {
		return nil, fmt.Errorf("%w: extract %q: %w", ErrNoMetadata, fi.File, fi.Err)
	}

	m := Metadata{}
	found := false
	for _, name := range wantTags {
		raw, ok := fi.Fields[name]
		if !ok {
			continue
		}
		found = true
		v := fieldValue(raw)
		klog.V(2).Infof("%s: %q=%v", fi.File, name, v)
		if v.Kind != Absent {
			m[name] = v
		}
	}

	// exiftool reports file fields for anything it can read.
	if !found {
		return nil, fmt.Errorf("%w: no exif tags in %q", ErrNoMetadata, fi.File)
	}
	return m, nil
}

func fieldValue(raw interface{}) Value {
	switch v := raw.(type) {
	case float64:
		return FloatValue(v)
	case int64:
		return FloatValue(float64(v))
	case int:
		return FloatValue(float64(v))
	case string:
		if r, ok := parseRational(v); ok {
			return r
		}
		return TextValue(v)
	default:
		return Value{}
	}
}

// parseRational parses "num/den" strings such as "1/128".
func parseRational(s string) (Value, bool) {
	n, d, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Value{}, false
	}
	num, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	if err != nil {
		return Value{}, false
	}
	den, err := strconv.ParseInt(strings.TrimSpace(d), 10, 64)
	if err != nil {
		return Value{}, false
	}
	return RationalValue(num, den), true
}

// parseFloat parses a finite decimal string.
func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
