// pkg/dxvk/extract.go
package dxvk

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractArchive unpacks a .tar.gz release archive into destDir
func extractArchive(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		name := filepath.FromSlash(header.Name)
		if !filepath.IsLocal(name) {
			return fmt.Errorf("archive entry escapes destination: %s", header.Name)
		}
		target := filepath.Join(destDir, name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory: %w", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("creating directory: %w", err)
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(header.Mode)&0777)
			if err != nil {
				return fmt.Errorf("creating file: %w", err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("writing file: %w", err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("closing file: %w", err)
			}
		}
	}
}

// verifyArchive decodes the full compressed stream and reports whether it is
// complete. Catches truncated downloads left behind in the cache.
func verifyArchive(archivePath string) bool {
	f, err := os.Open(archivePath)
	if err != nil {
		return false
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return false
	}
	defer gz.Close()

	_, err = io.Copy(io.Discard, gz)
	return err == nil
}

// findDLLRoot locates the directory holding the x64/x32 payload beneath an
// extraction directory. Release archives nest everything under a versioned
// top-level directory.
func findDLLRoot(extractDir string) (string, error) {
	if _, err := os.Stat(filepath.Join(extractDir, "x64")); err == nil {
		return extractDir, nil
	}

	entries, err := os.ReadDir(extractDir)
	if err != nil {
		return "", fmt.Errorf("reading extraction directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		candidate := filepath.Join(extractDir, entry.Name())
		if _, err := os.Stat(filepath.Join(candidate, "x64")); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no x64 payload under %s", extractDir)
}
