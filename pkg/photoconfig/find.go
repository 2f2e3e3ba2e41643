package photoconfig

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".avif"}

func isImage(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range imageExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Find returns the images directly inside dir, in directory listing order.
func Find(dir string) ([]string, error) {
	des, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	found := []string{}
	for _, de := range des {
		name := de.Name()
		if !isImage(name) {
			klog.V(2).Infof("skipping %s", name)
			continue
		}

		path := filepath.Join(dir, name)
		isDir, err := de.IsDirOrSymlinkToDir()
		if err != nil {
			klog.Warningf("unable to stat %s: %v", path, err)
		}
		if isDir {
			continue
		}

		klog.V(1).Infof("found %s", path)
		found = append(found, path)
	}

	return found, nil
}
