package photoconfig

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// SrcPath returns the gallery-relative path of an image.
func SrcPath(c *Config, path string) string {
	sep := c.SrcSeparator
	if sep == "" {
		sep = "/"
	}
	prefix := c.SrcPrefix
	for strings.HasSuffix(prefix, sep) {
		prefix = strings.TrimSuffix(prefix, sep)
	}
	return prefix + sep + filepath.Base(path)
}

// NewRecord builds the descriptor entry for one image.
// A non-nil err means no metadata could be read, and all fields are placeholders.
func NewRecord(c *Config, path string, f Fields, err error) Record {
	r := Record{
		Src:          SrcPath(c, path),
		Camera:       UnknownCamera,
		Aperture:     UnknownAperture,
		ShutterSpeed: UnknownShutterSpeed,
	}

	if err != nil {
		return r
	}

	if f.Camera != "" {
		r.Camera = f.Camera
	}
	if f.Aperture != "" {
		r.Aperture = f.Aperture
	}
	if f.ShutterSpeed != "" {
		r.ShutterSpeed = f.ShutterSpeed
	}
	return r
}

// Collect builds one record per path, preserving the order of paths.
func Collect(ctx context.Context, c *Config, d Decoder, paths []string) (*Document, error) {
	records := make([]Record, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := Extract(d, path)
			if err != nil {
				klog.Warningf("unable to read metadata from %s: %v", path, err)
			}
			records[i] = NewRecord(c, path, f, err)
			klog.V(1).Infof("%s: %+v", path, records[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}

	return &Document{Images: records}, nil
}
