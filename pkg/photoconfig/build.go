package photoconfig

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"
)

// Build scans c.InDir and writes the gallery descriptor to c.OutPath.
func Build(ctx context.Context, c *Config) (*Document, error) {
	klog.Infof("build: %s -> %s", c.InDir, c.OutPath)

	paths, err := Find(c.InDir)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	klog.Infof("found %d images", len(paths))

	d, err := OpenDecoder(c.Decoder)
	if err != nil {
		return nil, fmt.Errorf("decoder: %w", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			klog.Errorf("close decoder: %v", err)
		}
	}()

	doc, err := Collect(ctx, c, d, paths)
	if err != nil {
		return nil, err
	}

	if err := Write(c.OutPath, doc); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	return doc, nil
}
