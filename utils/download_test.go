package utils

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestUtils_ShouldDownloadImage(t *testing.T) {
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sample.PNG":
			w.Write(data)
		case "/notes.txt":
			w.Write([]byte("plain text, not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f, err := DownloadImage(srv.URL + "/sample.PNG")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	defer f.Close()
	base := filepath.Base(f.Name())
	assert.True(t, strings.HasPrefix(base, "vectrace-"))
	assert.Equal(t, ".png", filepath.Ext(base))

	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = DownloadImage(srv.URL + "/notes.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an image")

	_, err = DownloadImage(srv.URL + "/missing.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestUtils_ShouldBeValidUrl(t *testing.T) {
	assert.True(t, IsValidUrl("https://github.com/esimov/vectrace/"))
	assert.False(t, IsValidUrl("testdata/sample.png"))
	assert.False(t, IsValidUrl("-"))
	assert.Equal(t, ".jpg", urlExt("https://example.com/a/b.JPG?size=2"))
	assert.Empty(t, urlExt("https://example.com/"))
}
