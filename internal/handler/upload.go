package handler

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// allowedImageExt maps accepted MIME types to the extension the stored
// file gets. Anything else is rejected before a byte is written.
var allowedImageExt = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
}

// UploadHandler stores admin-uploaded images under a public directory and
// returns their /uploads/ URL, which is the only non-absolute URL form the
// content sanitizer lets through.
type UploadHandler struct {
	Dir      string
	MaxBytes int64
}

func NewUploadHandler(dir string, maxBytes int64) *UploadHandler {
	return &UploadHandler{Dir: dir, MaxBytes: maxBytes}
}

// Upload accepts a multipart form with field "file". Disallowed MIME types
// and oversize files yield 400; nothing about the original filename
// survives into the stored name.
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	if fh.Size > h.MaxBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file too large"})
	}

	ct := fh.Header.Get("Content-Type")
	if parsed, _, err := mime.ParseMediaType(ct); err == nil {
		ct = parsed
	}
	ext, ok := allowedImageExt[ct]
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported file type"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	defer src.Close()

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}

	name, err := randomHex(16)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	name += ext

	dst, err := os.Create(filepath.Join(h.Dir, name))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	defer dst.Close()

	// The multipart header size is client-supplied; cap the copy too.
	n, err := io.Copy(dst, io.LimitReader(src, h.MaxBytes+1))
	if err != nil {
		_ = os.Remove(dst.Name())
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	if n > h.MaxBytes {
		_ = os.Remove(dst.Name())
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file too large"})
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true, "url": "/uploads/" + name})
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
