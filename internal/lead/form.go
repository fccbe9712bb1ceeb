package lead

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/huangsam/birkin/schema"
	"golang.org/x/time/rate"
)

// RequestTimeout bounds a single form or upload request.
const RequestTimeout = 30 * time.Second

// formResponse is the relevant part of the form backend reply.
type formResponse struct {
	OK bool `json:"ok"`
}

// FormClient posts leads to the hosted form backend. It satisfies contract.LeadSubmitter.
type FormClient struct {
	Endpoint   string
	HTTPClient *http.Client
	limiter    *rate.Limiter
}

// NewFormClient creates a client that sends at most perMinute submissions per minute.
func NewFormClient(endpoint string, perMinute int) *FormClient {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &FormClient{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: RequestTimeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

// Submit sends one multipart request with the lead fields. imageURL may be empty.
func (c *FormClient) Submit(ctx context.Context, req schema.ConsultRequest, imageURL string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limit wait: %w", ErrTransport, err)
	}

	body, contentType, err := encodeLead(req, imageURL)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, body)
	if err != nil {
		return fmt.Errorf("build form request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var reply formResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&reply); err != nil {
		return fmt.Errorf("%w: decode form reply (status %d): %w", ErrTransport, resp.StatusCode, err)
	}
	if !reply.OK {
		return fmt.Errorf("%w: form backend returned status %d", ErrRejected, resp.StatusCode)
	}
	return nil
}

// encodeLead writes the form fields in the order the backend expects.
func encodeLead(req schema.ConsultRequest, imageURL string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := []struct{ key, value string }{
		{"name", req.Name},
		{"email", req.Email},
		{"model", string(req.Model)},
		{"hardware", string(req.Hardware)},
		{"leather", string(req.Leather)},
		{"size", req.Size},
		{"message", req.Message},
		{"image_url", imageURL},
	}
	for _, f := range fields {
		if err := w.WriteField(f.key, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.key, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
