// Package web publishes the current key for out-of-band distribution: a
// JSON record, a plaintext copy, and a small HTML viewer polling the record.
package web

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Publisher writes the key artifacts next to Path on every publish. Publish
// is idempotent, so it doubles as the periodic guard against the files being
// deleted externally.
type Publisher struct {
	// Path is where the JSON record goes, e.g. "web/key.txt". The plaintext
	// copy and the viewer are placed in the same directory.
	Path string
}

type record struct {
	Key        string `json:"key"`
	NextUpdate int64  `json:"nextUpdate"` // epoch milliseconds
	UpdateTime string `json:"updateTime"`
}

// Publish writes the key and its rotation time. The record is written via a
// temp file and rename so a polling reader never sees the key without its
// matching rotation time.
func (p Publisher) Publish(key string, nextRotation time.Time) error {
	dir := filepath.Dir(p.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating web directory: %w", err)
	}

	rec, err := json.Marshal(record{
		Key:        key,
		NextUpdate: nextRotation.UnixMilli(),
		UpdateTime: nextRotation.Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		return err
	}

	if err := writeAtomic(p.Path, rec); err != nil {
		return fmt.Errorf("writing key record: %w", err)
	}
	if err := writeAtomic(p.plainPath(), []byte(key)); err != nil {
		return fmt.Errorf("writing plaintext key: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, "key.html"), []byte(viewerPage(filepath.Base(p.Path)))); err != nil {
		return fmt.Errorf("writing viewer page: %w", err)
	}
	return nil
}

// Load reads the current key back from a previously published record. The
// record outlives restarts, so the key rotated while running is not lost to
// the stale one in the config file.
func (p Publisher) Load() (string, error) {
	buf, err := os.ReadFile(p.Path)
	if err != nil {
		return "", err
	}
	var rec record
	if err := json.Unmarshal(buf, &rec); err != nil {
		return "", fmt.Errorf("parsing key record: %w", err)
	}
	return rec.Key, nil
}

// plainPath derives the plaintext copy's path, "key.txt" -> "key_simple.txt".
func (p Publisher) plainPath() string {
	ext := filepath.Ext(p.Path)
	return strings.TrimSuffix(p.Path, ext) + "_simple" + ext
}

// writeAtomic writes data to a uniquely named temp file and renames it into
// place, so concurrent publishes never interleave into the same file and a
// reader never sees a partial write.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	// CreateTemp files are 0600, the artifacts are served over HTTP
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
