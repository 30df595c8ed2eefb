// pkg/winever/extract.go
package winever

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// extractArchive extracts a tar.gz or tar.xz archive into destDir
func extractArchive(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var tarReader *tar.Reader
	switch {
	case strings.HasSuffix(archivePath, ".tar.gz"), strings.HasSuffix(archivePath, ".tgz"):
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gzReader.Close()
		tarReader = tar.NewReader(gzReader)
	case strings.HasSuffix(archivePath, ".tar.xz"):
		xzReader, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating xz reader: %w", err)
		}
		tarReader = tar.NewReader(xzReader)
	default:
		return fmt.Errorf("unsupported archive format: %s", filepath.Base(archivePath))
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("creating install directory: %w", err)
	}

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		cleanPath := strings.TrimPrefix(header.Name, "./")
		if cleanPath == "" || cleanPath == "." {
			continue
		}
		// Refuse entries escaping the destination
		if !filepath.IsLocal(cleanPath) {
			continue
		}

		targetPath := filepath.Join(destDir, cleanPath)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", targetPath, err)
			}

		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return fmt.Errorf("creating parent directory for symlink: %w", err)
			}
			os.Remove(targetPath)
			if err := os.Symlink(header.Linkname, targetPath); err != nil {
				return fmt.Errorf("creating symlink %s -> %s: %w", targetPath, header.Linkname, err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return fmt.Errorf("creating parent directory: %w", err)
			}

			outFile, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("creating file %s: %w", targetPath, err)
			}

			written, err := io.Copy(outFile, tarReader)
			outFile.Close()
			if err != nil {
				return fmt.Errorf("writing file %s: %w", targetPath, err)
			}
			if written != header.Size {
				return fmt.Errorf("file size mismatch for %s: expected %d, got %d", targetPath, header.Size, written)
			}
		}
	}

	return nil
}

// verifyArchive reports whether a cached archive is fully readable. A
// truncated download fails the decompression stream and must not be reused.
func verifyArchive(archivePath string) bool {
	f, err := os.Open(archivePath)
	if err != nil {
		return false
	}
	defer f.Close()

	var reader io.Reader
	switch {
	case strings.HasSuffix(archivePath, ".tar.gz"), strings.HasSuffix(archivePath, ".tgz"):
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return false
		}
		defer gzReader.Close()
		reader = gzReader
	case strings.HasSuffix(archivePath, ".tar.xz"):
		xzReader, err := xz.NewReader(f)
		if err != nil {
			return false
		}
		reader = xzReader
	default:
		return false
	}

	_, err = io.Copy(io.Discard, reader)
	return err == nil
}
