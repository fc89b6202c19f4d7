package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.jpg", append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 32)...))
	spoofed := writeFile(t, dir, "receipt.jpg", append([]byte("MZ"), make([]byte, 98)...))

	t.Run("all accepted", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"-type", "image/jpeg", good}, &stdout, &stderr)

		assert.Equal(t, exitOK, code)
		assert.Equal(t, good+": ok (image/jpeg)\n", stdout.String())
		assert.Empty(t, stderr.String())
	})

	t.Run("one rejected", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"-type", "image/jpeg", good, spoofed}, &stdout, &stderr)

		assert.Equal(t, exitRejected, code)
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1], "rejected [type_mismatch]")
	})

	t.Run("missing type", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{good}, &stdout, &stderr)

		assert.Equal(t, exitRejected, code)
		assert.Contains(t, stdout.String(), "missing_content_type")
	})

	t.Run("unreadable file", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"-type", "image/jpeg", filepath.Join(dir, "nope.jpg")}, &stdout, &stderr)

		assert.Equal(t, exitUsage, code)
		assert.Contains(t, stderr.String(), "nope.jpg")
	})

	t.Run("no files", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitUsage, run([]string{"-type", "image/png"}, &stdout, &stderr))
	})

	t.Run("version", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitOK, run([]string{"-version"}, &stdout, &stderr))
		assert.Contains(t, stdout.String(), "Build version: N/A")
	})
}
