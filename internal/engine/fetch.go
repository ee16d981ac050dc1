package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/docbridge-ai/docbridge/internal/convert"
	"github.com/google/uuid"
)

// fetch downloads a URL source into a scratch directory and returns the local
// path, the response content type, and a cleanup function that removes the
// whole directory.
func (e *Engine) fetch(ctx context.Context, source string) (string, string, func(), error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", "", nil, convert.ConversionError(fmt.Sprintf("build request for %s", source), err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", "", nil, convert.ConversionError(fmt.Sprintf("fetch %s", source), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", nil, convert.ConversionError(fmt.Sprintf("fetch %s: status %d", source, resp.StatusCode), nil)
	}

	scratch, err := os.MkdirTemp("", "docbridge-fetch-"+uuid.NewString()[:8]+"-*")
	if err != nil {
		return "", "", nil, convert.IOError("create scratch directory", err)
	}
	cleanup := func() { _ = os.RemoveAll(scratch) }

	path := filepath.Join(scratch, remoteBaseName(source))
	out, err := os.Create(path)
	if err != nil {
		cleanup()
		return "", "", nil, convert.IOError(fmt.Sprintf("create scratch file %s", path), err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		cleanup()
		return "", "", nil, convert.IOError(fmt.Sprintf("download %s", source), err)
	}
	if err := out.Close(); err != nil {
		cleanup()
		return "", "", nil, convert.IOError(fmt.Sprintf("close scratch file %s", path), err)
	}

	return path, resp.Header.Get("Content-Type"), cleanup, nil
}

// sniffFileFormat determines the format of a fetched file whose URL carried
// no recognizable extension, from the response content type and the file's
// leading bytes.
func sniffFileFormat(path, contentType string) (convert.InputFormat, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", convert.IOError(fmt.Sprintf("open %s", path), err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return "", convert.IOError(fmt.Sprintf("read %s", path), err)
	}
	return convert.SniffFormat(contentType, head[:n])
}

// remoteBaseName derives a local file name for a URL source, keeping the
// extension so format dispatch still works on the scratch copy.
func remoteBaseName(source string) string {
	u, err := url.Parse(source)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "document"
	}
	base := filepath.Base(u.Path)
	if base == "." || base == "/" {
		return "document"
	}
	return base
}
