// Package relay forwards an uploaded spreadsheet to the external
// geocoding backend and decodes the processed rows it sends back. The
// backend's pipeline is out of scope here; this is the whole contract.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/geoproc/internal/dataset"
	"github.com/geoproc/internal/debug"
)

// ErrUnavailable indicates the relay could not be reached or answered
// with a failure status.
var ErrUnavailable = errors.New("upload relay unavailable")

// ErrMalformed indicates the relay answered but the body was not the
// expected record envelope.
var ErrMalformed = errors.New("malformed relay response")

// Response is the envelope the geocoding backend returns for an upload.
type Response struct {
	Filename string           `json:"filename"`
	Rows     int              `json:"rows"`
	Data     []dataset.Record `json:"data"`
}

// Client posts spreadsheet files to the relay endpoint.
type Client struct {
	uploadURL string
	http      *http.Client

	// Debug enables request tracing
	Debug bool
}

// NewClient returns a client for the relay at uploadURL. Geocoding a
// large sheet is slow on the backend side, so the timeout is generous.
func NewClient(uploadURL string) *Client {
	return &Client{
		uploadURL: uploadURL,
		http:      &http.Client{Timeout: 10 * time.Minute},
	}
}

// Upload sends the named spreadsheet to the relay and returns the
// processed rows. The caller owns checking that the response still
// belongs to the active session before loading it.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (*Response, error) {
	defer debug.Timing(c.Debug, fmt.Sprintf("relay upload %s", filename))()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finish upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if decoded.Data == nil {
		return nil, fmt.Errorf("%w: missing data field", ErrMalformed)
	}
	return &decoded, nil
}
