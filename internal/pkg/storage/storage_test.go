package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "reports/a.json", strings.NewReader("{}")))

	rc, err := s.Open(ctx, "reports/a.json")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "{}", string(data))

	require.NoError(t, s.Delete(ctx, "reports/a.json"))
	require.NoError(t, s.Delete(ctx, "reports/a.json"), "deleting twice is fine")

	_, err = s.Open(ctx, "reports/a.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorageList(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	entries, err := s.List(ctx, "reports")
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, s.Save(ctx, "reports/b.json", strings.NewReader("{}")))
	require.NoError(t, s.Save(ctx, "reports/a.json", strings.NewReader("{\"x\":1}")))
	require.NoError(t, s.Save(ctx, "reports/nested/c.json", strings.NewReader("{}")))

	entries, err = s.List(ctx, "reports")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "reports/a.json", entries[0].Path)
	assert.Equal(t, int64(7), entries[0].Size)
	assert.Equal(t, "reports/b.json", entries[1].Path)

	_, err = s.List(ctx, "../")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, p := range []string{"", "../x", "a/../../x", "/etc/passwd"} {
		err := s.Save(context.Background(), p, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
}

func TestThumbnail(t *testing.T) {
	out, err := Thumbnail(pngBytes(t, 1280, 720), 320, 240)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 180, img.Bounds().Dy())

	_, err = Thumbnail([]byte("not an image"), 10, 10)
	assert.Error(t, err)
}

func TestEvidence(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	e := NewEvidence(s)
	e.now = func() time.Time { return time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC) }

	art, err := e.SaveScreenshot(ctx, `search "Acc" with filter {Active}`, pngBytes(t, 64, 64))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(art.Screenshot, "screenshots/20251001T120000-search-acc-with-filter-active-"))
	assert.True(t, strings.HasSuffix(art.Thumbnail, ".jpg"))

	rc, err := s.Open(ctx, art.Thumbnail)
	require.NoError(t, err)
	rc.Close()

	art, err = e.SaveScreenshot(ctx, "broken", []byte("garbage"))
	require.NoError(t, err)
	assert.Empty(t, art.Thumbnail)

	p, err := e.SaveReport(ctx, map[string]int{"discrepancies": 2})
	require.NoError(t, err)
	rc, err = s.Open(ctx, p)
	require.NoError(t, err)
	defer rc.Close()
	var got map[string]int
	require.NoError(t, json.NewDecoder(rc).Decode(&got))
	assert.Equal(t, 2, got["discrepancies"])
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "filter-persistence-active-closed", Slug("filter persistence {Active, Closed}"))
	assert.Equal(t, "scenario", Slug("!!!"))
}
