package pkg

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/ulikunitz/xz"
)

// DefaultArchiveName returns the release archive name for the current
// platform, e.g. "multiplecam-windows-amd64.zip".
func DefaultArchiveName(name string) string {
	ext := ".tar.xz"
	if runtime.GOOS == "windows" {
		ext = ".zip"
	}

	return fmt.Sprintf("%s-%s-%s%s", name, runtime.GOOS, runtime.GOARCH, ext)
}

// PackDist recursively packs the contents of dir into the archive at outPath.
// The format is picked based on the extension; .zip and .tar.xz are supported.
func PackDist(dir, outPath string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return eris.Wrapf(err, "failed to open %s", dir)
	}
	if !info.IsDir() {
		return eris.Errorf("%s is not a directory", dir)
	}

	switch {
	case strings.HasSuffix(outPath, ".zip"):
		return packZip(dir, outPath)
	case strings.HasSuffix(outPath, ".tar.xz"):
		return packTarXz(dir, outPath)
	default:
		return eris.Errorf("unsupported archive format for %s, expected .zip or .tar.xz", outPath)
	}
}

func walkDist(dir string, visit func(relPath string, info fs.FileInfo, handle *os.File) error) error {
	return filepath.WalkDir(dir, func(path string, item fs.DirEntry, err error) error {
		if err != nil {
			return eris.Wrapf(err, "failed to read %s", path)
		}

		if item.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return eris.Wrapf(err, "failed to resolve %s", path)
		}

		info, err := item.Info()
		if err != nil {
			return eris.Wrapf(err, "failed to stat %s", path)
		}

		handle, err := os.Open(path)
		if err != nil {
			return eris.Wrapf(err, "failed to open %s", path)
		}
		defer handle.Close()

		return visit(filepath.ToSlash(relPath), info, handle)
	})
}

func packZip(dir, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return eris.Wrapf(err, "failed to create %s", outPath)
	}
	defer out.Close()

	writer := zip.NewWriter(out)
	err = walkDist(dir, func(relPath string, info fs.FileInfo, handle *os.File) error {
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return eris.Wrapf(err, "failed to build archive header for %s", relPath)
		}

		header.Name = relPath
		header.Method = zip.Deflate

		entry, err := writer.CreateHeader(header)
		if err != nil {
			return eris.Wrapf(err, "failed to add %s to the archive", relPath)
		}

		_, err = io.Copy(entry, handle)
		if err != nil {
			return eris.Wrapf(err, "failed to write %s to the archive", relPath)
		}

		return nil
	})
	if err != nil {
		return err
	}

	err = writer.Close()
	if err != nil {
		return eris.Wrapf(err, "failed to finish %s", outPath)
	}

	return out.Close()
}

func packTarXz(dir, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return eris.Wrapf(err, "failed to create %s", outPath)
	}
	defer out.Close()

	compressor, err := xz.NewWriter(out)
	if err != nil {
		return eris.Wrapf(err, "failed to initialize the compressor for %s", outPath)
	}

	writer := tar.NewWriter(compressor)
	err = walkDist(dir, func(relPath string, info fs.FileInfo, handle *os.File) error {
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return eris.Wrapf(err, "failed to build archive header for %s", relPath)
		}

		header.Name = relPath
		err = writer.WriteHeader(header)
		if err != nil {
			return eris.Wrapf(err, "failed to add %s to the archive", relPath)
		}

		_, err = io.Copy(writer, handle)
		if err != nil {
			return eris.Wrapf(err, "failed to write %s to the archive", relPath)
		}

		return nil
	})
	if err != nil {
		return err
	}

	err = writer.Close()
	if err != nil {
		return eris.Wrapf(err, "failed to finish %s", outPath)
	}

	err = compressor.Close()
	if err != nil {
		return eris.Wrapf(err, "failed to finish %s", outPath)
	}

	return out.Close()
}
