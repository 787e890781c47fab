package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	img     image.Image
	err     error
	mounted bool
}

func (s *fakeSurface) SetBackground(string) {}

func (s *fakeSurface) Capture(context.Context) (image.Image, error) { return s.img, s.err }

func (s *fakeSurface) Mounted() bool { return s.mounted }

type recordingDownloader struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (d *recordingDownloader) Download(_ context.Context, filename, uri string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, filename+" "+uri[:len(PNGDataURIPrefix)])
	return d.err
}

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	return img
}

func logLines(buf *bytes.Buffer) []string {
	s := strings.TrimSpace(buf.String())
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestExportDownloads(t *testing.T) {
	d := &recordingDownloader{}
	e := NewExporter(d)

	out := e.Export(context.Background(), &fakeSurface{img: solid(4, 4), mounted: true})
	require.Equal(t, Outcome{Status: Downloaded, Filename: "background.png"}, out)
	require.Equal(t, []string{"background.png " + PNGDataURIPrefix}, d.calls)
}

func TestExportNilSurface(t *testing.T) {
	var buf bytes.Buffer
	d := &recordingDownloader{}
	e := NewExporter(d, WithLogger(zerolog.New(&buf)))

	require.NotPanics(t, func() {
		out := e.Export(context.Background(), nil)
		require.Equal(t, Skipped, out.Status)
	})
	out := e.Export(context.Background(), &fakeSurface{img: solid(1, 1)})
	require.Equal(t, Skipped, out.Status)

	require.Empty(t, d.calls)
	require.Empty(t, logLines(&buf))
}

func TestExportCaptureFailureLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	d := &recordingDownloader{}
	e := NewExporter(d, WithLogger(zerolog.New(&buf)))

	out := e.Export(context.Background(), &fakeSurface{err: errors.New("boom"), mounted: true})
	require.Equal(t, Failed, out.Status)
	require.Empty(t, d.calls)

	lines := logLines(&buf)
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], `"level":"error"`)
	require.Contains(t, lines[0], "error saving image")
	require.Contains(t, lines[0], "boom")
}

func TestExportDownloadFailure(t *testing.T) {
	var buf bytes.Buffer
	d := &recordingDownloader{err: errors.New("disk full")}
	e := NewExporter(d, WithLogger(zerolog.New(&buf)))

	out := e.Export(context.Background(), &fakeSurface{img: solid(2, 2), mounted: true})
	require.Equal(t, Failed, out.Status)
	require.Len(t, logLines(&buf), 1)
}

func TestExportGo(t *testing.T) {
	d := &recordingDownloader{}
	var hooked []Outcome
	var mu sync.Mutex
	e := NewExporter(d, WithOutcomeHook(func(o Outcome) {
		mu.Lock()
		hooked = append(hooked, o)
		mu.Unlock()
	}))

	s := &fakeSurface{img: solid(2, 2), mounted: true}
	first := e.Go(context.Background(), s)
	second := e.Go(context.Background(), s)

	require.Equal(t, Downloaded, (<-first).Status)
	require.Equal(t, Downloaded, (<-second).Status)
	_, open := <-first
	require.False(t, open)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, hooked, 2)
	require.Len(t, d.calls, 2)
}

func TestDataURIRoundTrip(t *testing.T) {
	uri, err := EncodeDataURI(solid(3, 2))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, PNGDataURIPrefix))

	data, err := DecodeDataURI(uri)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	_, err = DecodeDataURI("data:image/jpeg;base64,AAAA")
	require.ErrorIs(t, err, ErrMalformedDataURI)
	_, err = DecodeDataURI(PNGDataURIPrefix + "!!!")
	require.ErrorIs(t, err, ErrMalformedDataURI)
}

func TestFileDownloader(t *testing.T) {
	dir := t.TempDir()
	uri, err := EncodeDataURI(solid(2, 2))
	require.NoError(t, err)

	d := FileDownloader{Dir: dir}
	require.NoError(t, d.Download(context.Background(), Filename, uri))

	data, err := os.ReadFile(filepath.Join(dir, Filename))
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	require.Equal(t, filepath.Join(dir, "x.png"), d.Path("../../x.png"))
}

func TestWriterDownloader(t *testing.T) {
	uri, err := EncodeDataURI(solid(2, 2))
	require.NoError(t, err)

	var buf bytes.Buffer
	var gotName string
	var gotSize int
	d := WriterDownloader{W: &buf, Before: func(name string, size int) {
		gotName, gotSize = name, size
	}}
	require.NoError(t, d.Download(context.Background(), Filename, uri))
	require.Equal(t, Filename, gotName)
	require.Equal(t, buf.Len(), gotSize)
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "skipped", Skipped.String())
	require.Equal(t, "downloaded", Downloaded.String())
	require.Equal(t, "failed", Failed.String())
	require.Equal(t, "unknown", Status(9).String())
}
