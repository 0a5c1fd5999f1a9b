package evidence

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/storage"
)

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func readAll(t *testing.T, rc io.ReadCloser) []byte {
	t.Helper()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}

func setup(t *testing.T) (Service, *storage.Evidence) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewService(local), storage.NewEvidence(local)
}

func TestReports(t *testing.T) {
	ctx := context.Background()
	svc, ev := setup(t)

	reports, err := svc.ListReports(ctx)
	require.NoError(t, err)
	assert.Empty(t, reports)

	p, err := ev.SaveReport(ctx, map[string]bool{"passed": true})
	require.NoError(t, err)
	name := path.Base(p)

	reports, err = svc.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, name, reports[0].Name)
	assert.Positive(t, reports[0].Size)

	assert.Contains(t, string(readAll(t, must(svc.OpenReport(ctx, name)))), `"passed": true`)

	_, err = svc.OpenReport(ctx, "missing.json")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func must(rc io.ReadCloser, err error) io.ReadCloser {
	if err != nil {
		panic(err)
	}
	return rc
}

func TestScreenshots(t *testing.T) {
	ctx := context.Background()
	svc, ev := setup(t)

	art, err := ev.SaveScreenshot(ctx, "filter {Cancelled}", samplePNG(t))
	require.NoError(t, err)
	name := path.Base(art.Screenshot)

	shot := readAll(t, must(svc.OpenScreenshot(ctx, name)))
	assert.Equal(t, samplePNG(t), shot)

	thumb := readAll(t, must(svc.OpenThumbnail(ctx, name)))
	assert.Equal(t, []byte{0xFF, 0xD8}, thumb[:2], "jpeg magic")

	require.NoError(t, svc.DeleteScreenshot(ctx, name))
	_, err = svc.OpenScreenshot(ctx, name)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = svc.OpenThumbnail(ctx, name)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteScreenshot(ctx, name), storage.ErrNotFound)
}

func TestRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	for _, name := range []string{"", "..", "../x.png", "a/b.png", `a\b.png`, ".hidden.png", "shot.jpg"} {
		_, err := svc.OpenScreenshot(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
	_, err := svc.OpenReport(ctx, "report.png")
	assert.ErrorIs(t, err, ErrInvalidName)
}
