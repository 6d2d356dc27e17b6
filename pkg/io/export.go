package io

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/kleviz/pkg/errors"
)

// OutputPath returns dir/<input base without extension>.<format>. An empty
// dir places the artifact next to its input.
func OutputPath(dir, input, format string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+"."+format)
}

// WriteFile writes data to path, creating parent directories. The bytes go
// to a temporary file in the same directory first and are renamed into
// place.
func WriteFile(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// WriteArtifact writes data to OutputPath(dir, input, format) and returns
// the path written.
func WriteArtifact(dir, input, format string, data []byte) (string, error) {
	path := OutputPath(dir, input, format)
	if err := WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}
