// Package loader handles ROM file loading operations.
package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// Loader handles loading ROM images from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the ROM image at the given path. The image is returned
// unchanged, it is rejected if it does not fit into the program area.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	rom, err := l.LoadReader(file)
	if err != nil {
		return nil, fmt.Errorf("loading file %s: %w", path, err)
	}
	return rom, nil
}

// LoadReader reads a ROM image from the reader. At most one byte more than
// the maximum program size is read so that oversized inputs are detected
// without reading them completely.
func (l *Loader) LoadReader(reader io.Reader) ([]byte, error) {
	rom, err := io.ReadAll(io.LimitReader(reader, chip8.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}
	if err := chip8.ValidateImage(rom); err != nil {
		return nil, fmt.Errorf("validating ROM: %w", err)
	}
	return rom, nil
}

// LoadFromBytes validates an in-memory ROM image and returns a copy of it.
func (l *Loader) LoadFromBytes(data []byte) ([]byte, error) {
	return l.LoadReader(bytes.NewReader(data))
}
