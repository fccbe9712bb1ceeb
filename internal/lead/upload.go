package lead

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// maxImageBytes caps the size of an uploaded image.
const maxImageBytes = 10 << 20

// uploadResponse is the relevant part of the media host reply.
type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Uploader pushes reference images to the media host. It satisfies contract.ImageUploader.
type Uploader struct {
	Endpoint   string
	Preset     string
	HTTPClient *http.Client
}

// NewUploader creates an uploader for an unsigned upload preset.
func NewUploader(endpoint, preset string) *Uploader {
	return &Uploader{
		Endpoint:   endpoint,
		Preset:     preset,
		HTTPClient: &http.Client{Timeout: RequestTimeout},
	}
}

// Upload sends the file at path with the upload preset and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, path string) (string, error) {
	if u.Endpoint == "" {
		return "", errors.New("upload endpoint not configured")
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat image: %w", err)
	}
	if info.Size() > maxImageBytes {
		return "", fmt.Errorf("image %s is %d bytes, limit is %d", path, info.Size(), maxImageBytes)
	}

	body, contentType, err := encodeImage(path, u.Preset)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.Endpoint, body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: upload returned status %d", ErrRejected, resp.StatusCode)
	}
	var reply uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&reply); err != nil {
		return "", fmt.Errorf("%w: decode upload reply: %w", ErrTransport, err)
	}
	if reply.SecureURL == "" {
		return "", fmt.Errorf("%w: upload reply has no secure_url", ErrRejected)
	}
	return reply.SecureURL, nil
}

func encodeImage(path, preset string) (io.Reader, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if err := w.WriteField("upload_preset", preset); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
