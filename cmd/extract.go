package cmd

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/ulikunitz/xz"
)

// extractDep unpacks the downloaded archive into the dep's destination. The
// format is picked based on the URL's extension.
func extractDep(archive *os.File, root string, dep runtimeDep) error {
	info, err := archive.Stat()
	if err != nil {
		return eris.Wrap(err, "failed to stat the downloaded archive")
	}

	bar := depProgressBar(info.Size(), "      extract")
	defer bar.Finish()

	destPath := filepath.Join(root, dep.Dest)

	if strings.HasSuffix(dep.URL, ".zip") {
		return extractZip(archive, info.Size(), bar, destPath, dep.Strip)
	}

	progressReader := progressbar.NewReader(archive, bar)
	var reader io.Reader = &progressReader
	switch {
	case strings.HasSuffix(dep.URL, ".tar.gz"):
		reader, err = gzip.NewReader(reader)
		if err != nil {
			return eris.Wrap(err, "failed to open the archive")
		}
	case strings.HasSuffix(dep.URL, ".tar.bz2"):
		reader = bzip2.NewReader(reader)
	case strings.HasSuffix(dep.URL, ".tar.xz"):
		reader, err = xz.NewReader(reader)
		if err != nil {
			return eris.Wrap(err, "failed to open the archive")
		}
	default:
		return eris.Errorf("archive format of %s not supported", dep.URL)
	}

	return extractTar(reader, destPath, dep.Strip)
}

// destFile creates the output file for an archive entry, stripping the given
// number of leading path elements. It returns a nil handle for entries that
// strip down to the destination itself.
func destFile(destPath, item string, strip int) (*os.File, string, error) {
	parts := strings.Split(filepath.Clean(filepath.FromSlash(item)), string(filepath.Separator))
	if strip >= len(parts) {
		return nil, "", nil
	}

	dest := filepath.Join(destPath, filepath.Join(parts[strip:]...))
	if dest == destPath {
		return nil, "", nil
	}

	err := os.MkdirAll(filepath.Dir(dest), 0770)
	if err != nil {
		return nil, "", eris.Wrapf(err, "failed to create directory %s", filepath.Dir(dest))
	}

	handle, err := os.Create(dest)
	if err != nil {
		return nil, "", eris.Wrapf(err, "failed to create file %s", dest)
	}

	return handle, dest, nil
}

func extractZip(archive *os.File, size int64, bar *progressbar.ProgressBar, destPath string, strip int) error {
	reader, err := zip.NewReader(archive, size)
	if err != nil {
		return eris.Wrap(err, "failed to open the archive")
	}

	for _, item := range reader.File {
		if strings.HasSuffix(item.Name, "/") {
			continue
		}

		handle, dest, err := destFile(destPath, item.Name, strip)
		if err != nil {
			return err
		}
		if handle == nil {
			continue
		}

		itemReader, err := item.Open()
		if err != nil {
			handle.Close()
			return eris.Wrapf(err, "failed to open the archive entry %s", item.Name)
		}

		_, err = io.Copy(handle, itemReader)
		itemReader.Close()
		if cErr := handle.Close(); err == nil {
			err = cErr
		}
		if err != nil {
			return eris.Wrapf(err, "failed to extract %s", dest)
		}

		bar.Add64(int64(item.CompressedSize64))
	}

	return nil
}

func extractTar(reader io.Reader, destPath string, strip int) error {
	archive := tar.NewReader(reader)

	for {
		item, err := archive.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return eris.Wrap(err, "failed to read the archive")
		}

		fi := item.FileInfo()
		if fi.IsDir() {
			continue
		}

		handle, dest, err := destFile(destPath, item.Name, strip)
		if err != nil {
			return err
		}
		if handle == nil {
			continue
		}

		if item.Typeflag == tar.TypeSymlink {
			handle.Close()
			err = os.Remove(dest)
			if err != nil {
				return eris.Wrapf(err, "failed to remove the placeholder file %s", dest)
			}

			err = os.Symlink(item.Linkname, dest)
			if err != nil {
				return eris.Wrapf(err, "failed to create the symlink %s", dest)
			}
			continue
		}

		_, err = io.Copy(handle, archive)
		if cErr := handle.Close(); err == nil {
			err = cErr
		}
		if err != nil {
			return eris.Wrapf(err, "failed to extract %s", dest)
		}

		os.Chmod(dest, fi.Mode())
	}
}
