package datasets

import (
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// sampleFileVersion is incremented when the on-disk sample format changes.
const sampleFileVersion = 1

// sampleFile is the on-disk representation of a built sample list.
type sampleFile struct {
	Version   int    // format version
	CreatedAt int64  // unix timestamp when the file was written
	Window    Window // window used to build the samples
	Samples   []Sample
}

// SaveSamples writes samples to path using encoding/gob. The write is atomic:
// data goes to a temp file in the same directory which is then renamed.
func SaveSamples(path string, w Window, samples []Sample) error {
	if path == "" {
		return fmt.Errorf("empty sample path")
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp sample file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	sf := sampleFile{
		Version:   sampleFileVersion,
		CreatedAt: time.Now().Unix(),
		Window:    w,
		Samples:   samples,
	}
	if err := gob.NewEncoder(tmpFile).Encode(&sf); err != nil {
		return fmt.Errorf("encode samples to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		log.Printf("warning: sync temp sample file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp sample file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp sample file to target: %w", err)
	}
	return nil
}

// LoadSamples reads a sample file written by SaveSamples and returns the
// window it was built with and the samples. A missing file yields an error
// wrapping fs.ErrNotExist.
func LoadSamples(path string) (Window, []Sample, error) {
	if path == "" {
		return Window{}, nil, fmt.Errorf("empty sample path")
	}
	fh, err := os.Open(path)
	if err != nil {
		return Window{}, nil, fmt.Errorf("open sample file %s: %w", path, err)
	}
	defer fh.Close()

	var sf sampleFile
	if err := gob.NewDecoder(fh).Decode(&sf); err != nil {
		return Window{}, nil, fmt.Errorf("decode samples %s: %w", path, err)
	}
	if sf.Version != sampleFileVersion {
		return Window{}, nil, fmt.Errorf("sample file version mismatch: file=%d expected=%d", sf.Version, sampleFileVersion)
	}
	return sf.Window, sf.Samples, nil
}
