package photoconfig

import (
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDecoder returns canned metadata per path.
type fakeDecoder struct {
	mu    sync.Mutex
	meta  map[string]Metadata
	delay map[string]time.Duration
	calls int
}

func (f *fakeDecoder) Decode(path string) (Metadata, error) {
	f.mu.Lock()
	f.calls++
	m, ok := f.meta[path]
	d := f.delay[path]
	f.mu.Unlock()

	time.Sleep(d)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoMetadata, path)
	}
	return m, nil
}

func (f *fakeDecoder) Close() error {
	return nil
}

func TestFormatShutterSpeed(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"rational", RationalValue(1, 32), "1/32"},
		{"rational zero numerator", RationalValue(0, 32), UnknownShutterSpeed},
		{"rational truncates", RationalValue(10, 1285), "1/128"},
		{"rational long exposure", RationalValue(2, 1), "1/0"},
		{"rational zero denominator", RationalValue(1, 0), "1/0"},
		{"float", FloatValue(0.0078125), "1/128"},
		{"float truncates", FloatValue(0.003), "1/333"},
		{"float zero", FloatValue(0), UnknownShutterSpeed},
		{"float nan", FloatValue(math.NaN()), UnknownShutterSpeed},
		{"float inf", FloatValue(math.Inf(1)), UnknownShutterSpeed},
		{"float overflow", FloatValue(1e-300), UnknownShutterSpeed},
		{"text rational", TextValue("1/250"), "1/250"},
		{"text float", TextValue("0.5"), "1/2"},
		{"text garbage", TextValue("fast"), UnknownShutterSpeed},
		{"absent", Value{}, UnknownShutterSpeed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatShutterSpeed(tt.in))
		})
	}
}

func TestFormatAperture(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"rational", RationalValue(28, 10), "28/10"},
		{"zero denominator", RationalValue(5, 0), "Unknown"},
		{"float", FloatValue(2.8), "2.8"},
		{"whole float", FloatValue(8), "8"},
		{"text", TextValue("f/4"), "f/4"},
		{"absent", Value{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAperture(tt.in))
		})
	}
}

func TestExtract(t *testing.T) {
	d := &fakeDecoder{meta: map[string]Metadata{
		"full.jpg": {
			TagModel:        TextValue("NIKON D750\x00"),
			TagFNumber:      RationalValue(28, 10),
			TagExposureTime: RationalValue(1, 32),
		},
		"partial.jpg": {
			TagExposureTime: FloatValue(0.0078125),
		},
		"empty.jpg": {},
		"padded.jpg": {
			TagModel:   TextValue(" Pixel 7 \x00\x00"),
			TagFNumber: TextValue(" 1.9"),
		},
		"nul.jpg": {
			TagModel: TextValue("\x00\x00"),
		},
	}}

	f, err := Extract(d, "full.jpg")
	require.NoError(t, err)
	assert.Equal(t, Fields{Camera: "NIKON D750", Aperture: "28/10", ShutterSpeed: "1/32"}, f)

	f, err = Extract(d, "partial.jpg")
	require.NoError(t, err)
	assert.Equal(t, Fields{ShutterSpeed: "1/128"}, f)

	f, err = Extract(d, "empty.jpg")
	require.NoError(t, err)
	assert.Equal(t, Fields{ShutterSpeed: UnknownShutterSpeed}, f)

	f, err = Extract(d, "padded.jpg")
	require.NoError(t, err)
	assert.Equal(t, Fields{Camera: " Pixel 7 ", Aperture: " 1.9", ShutterSpeed: UnknownShutterSpeed}, f)

	f, err = Extract(d, "nul.jpg")
	require.NoError(t, err)
	assert.Equal(t, "", f.Camera)
	assert.Equal(t, UnknownCamera, NewRecord(&Config{}, "nul.jpg", f, nil).Camera)

	_, err = Extract(d, "missing.png")
	assert.ErrorIs(t, err, ErrNoMetadata)
}
