package photoconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"
)

// Marshal renders a document as 4-space indented JSON.
func Marshal(doc *Document) ([]byte, error) {
	if doc.Images == nil {
		doc = &Document{Images: []Record{}}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Write replaces path with the rendered document.
// A symlinked path is written through, and an existing file keeps its mode.
func Write(path string, doc *Document) error {
	bs, err := Marshal(doc)
	if err != nil {
		return err
	}

	target := path
	mode := os.FileMode(0o644)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
		if st, err := os.Stat(target); err == nil {
			mode = st.Mode().Perm()
		}
	}

	f, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(bs); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Chmod(mode); err != nil {
		f.Close()
		return fmt.Errorf("chmod: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	klog.Infof("wrote %d images to %s", len(doc.Images), path)
	return nil
}
