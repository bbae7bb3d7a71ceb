// Package replicate calls the Replicate predictions API to tag images.
package replicate

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oukeidos/aitag/internal/apperrors"
	"github.com/oukeidos/aitag/internal/httpclient"
)

const (
	DefaultBaseURL = "https://api.replicate.com/v1"
	// DefaultModel is the grounded RAM tagging model.
	DefaultModel = "idea-research/ram-grounded-sam"
	// DefaultVersion pins the model version the output format was written against.
	DefaultVersion = "80a2aede4cf8e3c9f26e96c308d45b23c350dd36f1c381de790715007f1ac0ad"

	DefaultPollInterval = time.Second

	inputKey = "input_image"
)

// Tagger produces model output for an image on disk.
type Tagger interface {
	Predict(ctx context.Context, imagePath string) (*Output, error)
}

var _ Tagger = (*Client)(nil)

// Client handles communication with the Replicate API.
type Client struct {
	token        string
	version      string
	baseURL      string
	pollInterval time.Duration
}

// NewClient creates a client for the given model version. An empty version selects DefaultVersion.
func NewClient(token, version string) *Client {
	if version == "" {
		version = DefaultVersion
	}
	return &Client{
		token:        token,
		version:      version,
		baseURL:      DefaultBaseURL,
		pollInterval: DefaultPollInterval,
	}
}

// Version returns the configured model version.
func (c *Client) Version() string {
	return c.version
}

// Predict uploads the image, waits for the prediction to finish and decodes its output.
func (c *Client) Predict(ctx context.Context, imagePath string) (*Output, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.New(apperrors.KindNotFound,
				fmt.Sprintf("The file at %s does not exist.", filepath.Base(imagePath)), err)
		}
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	req := PredictionRequest{
		Version: c.version,
		Input:   map[string]any{inputKey: dataURI(imagePath, data)},
	}
	pred, err := c.create(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.Debug("Replicate prediction created", "id", pred.ID, "status", pred.Status)

	for !pred.Done() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
		if pred, err = c.get(ctx, pred); err != nil {
			return nil, err
		}
	}

	if pred.Status != StatusSucceeded {
		return nil, predictionError(pred)
	}

	var out Output
	if err := json.Unmarshal(pred.Output, &out); err != nil {
		return nil, apperrors.New(
			apperrors.KindValidation,
			"Replicate output format was invalid.",
			fmt.Errorf("failed to decode output of prediction %s: %w", pred.ID, err),
		)
	}
	slog.Debug("Replicate prediction succeeded", "id", pred.ID, "tags", out.Tags)
	return &out, nil
}

func (c *Client) create(ctx context.Context, body PredictionRequest) (*Prediction, error) {
	return c.call(ctx, httpclient.Request{
		Method:  http.MethodPost,
		URL:     c.baseURL + "/predictions",
		Payload: body,
		Header:  http.Header{"Prefer": {"wait"}},
	})
}

func (c *Client) get(ctx context.Context, p *Prediction) (*Prediction, error) {
	url := p.URLs.Get
	if url == "" {
		url = c.baseURL + "/predictions/" + p.ID
	}
	return c.call(ctx, httpclient.Request{Method: http.MethodGet, URL: url})
}

func (c *Client) call(ctx context.Context, r httpclient.Request) (*Prediction, error) {
	r.Token = c.token
	resp, err := httpclient.DoJSON(ctx, r)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.New(
			apperrors.KindTransient,
			"Replicate request failed due to a network error.",
			fmt.Errorf("request failed: %w", err),
		)
	}
	if !resp.OK() {
		return nil, classifyStatus(resp.StatusCode, resp.Status, parseAPIError(resp.Body))
	}

	var p Prediction
	if err := json.Unmarshal(resp.Body, &p); err != nil {
		return nil, apperrors.New(
			apperrors.KindValidation,
			"Replicate response format was invalid.",
			fmt.Errorf("failed to decode prediction: %w", err),
		)
	}
	return &p, nil
}

// mediaTypes covers extensions the system MIME tables often lack.
var mediaTypes = map[string]string{
	".tga": "image/x-tga",
}

func dataURI(path string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	mimeType, ok := mediaTypes[ext]
	if !ok {
		mimeType = mime.TypeByExtension(ext)
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
