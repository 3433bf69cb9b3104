package utils

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// sniffLen is the number of bytes http.DetectContentType looks at.
const sniffLen = 512

var httpClient = &http.Client{Timeout: time.Minute}

// DownloadImage fetches the image at uri into a temporary file and returns
// it with the read offset at the start. The file keeps the extension of
// the URL path so the decoder can be picked from its name. Responses that
// do not sniff as an image are rejected before anything is written.
func DownloadImage(uri string) (*os.File, error) {
	res, err := httpClient.Get(uri)
	if err != nil {
		return nil, fmt.Errorf("unable to download image file from URI %s: %w", uri, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unable to download image file from URI %s: status %v", uri, res.Status)
	}

	body := bufio.NewReaderSize(res.Body, sniffLen)
	head, err := body.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}
	if ctype := http.DetectContentType(head); !strings.HasPrefix(ctype, "image/") {
		return nil, fmt.Errorf("the downloaded file is not an image: %s", ctype)
	}

	f, err := os.CreateTemp("", "vectrace-*"+urlExt(uri))
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("unable to save %s: %w", uri, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	return f, nil
}

// urlExt returns the lower case extension of the URL path, if any.
func urlExt(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}

// IsValidUrl reports whether uri is an absolute URL with a scheme and a host.
func IsValidUrl(uri string) bool {
	if _, err := url.ParseRequestURI(uri); err != nil {
		return false
	}
	u, err := url.Parse(uri)
	return err == nil && u.Scheme != "" && u.Host != ""
}
