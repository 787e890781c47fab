// Destinations for exported images.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Downloader delivers a generated data URI to the user under a file name.
type Downloader interface {
	Download(ctx context.Context, filename, dataURI string) error
}

// DownloaderFunc adapts a function to Downloader.
type DownloaderFunc func(ctx context.Context, filename, dataURI string) error

// Download implements Downloader.
func (f DownloaderFunc) Download(ctx context.Context, filename, dataURI string) error {
	return f(ctx, filename, dataURI)
}

// FileDownloader writes downloads into Dir (current directory when empty).
type FileDownloader struct {
	Dir string
}

// Path returns where filename would be written.
func (d FileDownloader) Path(filename string) string {
	return filepath.Join(d.Dir, filepath.Base(filename))
}

// Download decodes the URI and writes the PNG file.
func (d FileDownloader) Download(_ context.Context, filename, dataURI string) error {
	data, err := DecodeDataURI(dataURI)
	if err != nil {
		return err
	}

	path := d.Path(filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriterDownloader streams the decoded PNG into W, e.g. an HTTP response.
type WriterDownloader struct {
	W io.Writer
	// Before, when set, runs after decoding and before the first byte is written.
	Before func(filename string, size int)
}

// Download implements Downloader.
func (d WriterDownloader) Download(_ context.Context, filename, dataURI string) error {
	data, err := DecodeDataURI(dataURI)
	if err != nil {
		return err
	}
	if d.Before != nil {
		d.Before(filename, len(data))
	}
	if _, err := d.W.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}
