package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/kleviz/pkg/errors"
	"github.com/matzehuels/kleviz/pkg/kle"
)

// ReadLayoutFile returns the raw bytes of a layout file, refusing files
// larger than errors.MaxLayoutBytes without reading them whole.
func ReadLayoutFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, errors.MaxLayoutBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := errors.ValidateLayoutData(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// ImportLayout reads and parses the layout file at path.
func ImportLayout(path string) (*kle.Keyboard, error) {
	data, err := ReadLayoutFile(path)
	if err != nil {
		return nil, err
	}
	kb, err := kle.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return kb, nil
}
