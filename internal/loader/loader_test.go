package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	t.Run("load ROM file", func(t *testing.T) {
		data := []byte{0x12, 0x34, 0x56, 0x78}
		tmpFile := createTempFile(t, data)

		rom, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.True(t, bytes.Equal(data, rom))
	})

	t.Run("load empty file", func(t *testing.T) {
		tmpFile := createTempFile(t, nil)

		rom, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.Empty(t, rom)
	})

	t.Run("load maximum size", func(t *testing.T) {
		tmpFile := createTempFile(t, make([]byte, chip8.MaxProgramSize))

		rom, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.Len(t, rom, chip8.MaxProgramSize)
	})

	t.Run("error on oversized file", func(t *testing.T) {
		tmpFile := createTempFile(t, make([]byte, chip8.MaxProgramSize+100))

		_, err := New().Load(tmpFile)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, chip8.ErrImageTooLarge))

		var loadErr *chip8.LoadError
		assert.True(t, errors.As(err, &loadErr))
		assert.Equal(t, chip8.MaxProgramSize+1, loadErr.Size)
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		_, err := New().Load("/nonexistent/file.ch8")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestLoadFromBytes(t *testing.T) {
	data := []byte{0x00, 0xE0, 0x12, 0x00}
	rom, err := New().LoadFromBytes(data)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal(data, rom))

	// the returned image does not alias the input
	rom[0] = 0xFF
	assert.Equal(t, byte(0x00), data[0])

	_, err = New().LoadFromBytes(make([]byte, chip8.MaxProgramSize+1))
	assert.True(t, errors.Is(err, chip8.ErrImageTooLarge))
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.ch8")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
