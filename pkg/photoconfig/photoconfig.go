// Package photoconfig generates the image descriptor consumed by a static photo gallery.
package photoconfig

import (
	"path/filepath"
)

const (
	UnknownCamera       = "Unknown Camera"
	UnknownAperture     = "Unknown Aperture"
	UnknownShutterSpeed = "Unknown Shutter Speed"
)

// Config holds configuration for photoconfig.
type Config struct {
	InDir   string
	OutPath string

	// SrcPrefix and SrcSeparator build the "src" field of each record.
	SrcPrefix    string
	SrcSeparator string

	Decoder string
	Workers int
}

// DefaultConfig returns a configuration matching the gallery's project layout.
func DefaultConfig(exe string) *Config {
	return &Config{
		InDir:        DefaultInDir(exe),
		OutPath:      "config.json",
		SrcPrefix:    `\assets\photos`,
		SrcSeparator: `\`,
		Decoder:      GoexifDecoder,
		Workers:      1,
	}
}

// DefaultInDir returns the photo directory two levels above the given executable.
func DefaultInDir(exe string) string {
	root := filepath.Dir(filepath.Dir(exe))
	return filepath.Join(root, "assets", "photos")
}
