package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-stickers/internal/platform/resilience"
)

// DefaultAPIURL is the public Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

// Client is a minimal Bot API client covering sticker set management.
type Client struct {
	baseURL string
	token   string
	httpCfg resilience.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a client. Rate limits and 5xx responses are retried
// twice; every other failure is returned to the caller.
func NewClient(httpClient *http.Client, apiURL, token string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		baseURL: apiURL,
		token:   token,
		httpCfg: resilience.HTTPClientConfig{
			Client: httpClient,
			Backoff: resilience.BackoffConfig{
				MaxRetries:      2,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
			RetryAfter: bodyRetryAfter,
		},
		circuit: resilience.NewBreaker("telegram"),
	}
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

// call posts a request built by build and decodes the result into out.
func (c *Client) call(ctx context.Context, method string, build func() (io.Reader, string, error), out any) error {
	buildRequest := func() (*http.Request, error) {
		body, contentType, err := build()
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequest(http.MethodPost, c.methodURL(method), body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	cfg := c.httpCfg
	if !repeatable[method] {
		cfg.Retry = resilience.RateLimited
	}

	resp, err := resilience.Do(ctx, cfg, c.circuit, buildRequest)
	if err != nil {
		var se *resilience.StatusError
		if errors.As(err, &se) {
			return decodeFailure(method, se)
		}
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("telegram %s: decode response: %w", method, err)
	}
	if !envelope.OK {
		return envelopeError(method, envelope)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("telegram %s: decode result: %w", method, err)
	}
	return nil
}

// repeatable methods can be sent again after a lost response without
// changing the set twice. A repeated replace fails on the already replaced id.
var repeatable = map[string]bool{
	"getStickerSet":       true,
	"uploadStickerFile":   true,
	"replaceStickerInSet": true,
}

// bodyRetryAfter reads parameters.retry_after from a failed response.
func bodyRetryAfter(se *resilience.StatusError) time.Duration {
	var envelope apiResponse
	if err := json.Unmarshal([]byte(se.Body), &envelope); err != nil || envelope.Parameters == nil {
		return 0
	}
	return time.Duration(envelope.Parameters.RetryAfter) * time.Second
}

func decodeFailure(method string, se *resilience.StatusError) error {
	var envelope apiResponse
	if err := json.Unmarshal([]byte(se.Body), &envelope); err != nil || envelope.Description == "" {
		return &APIError{Method: method, Code: se.Code, Description: se.Body}
	}
	if envelope.ErrorCode == 0 {
		envelope.ErrorCode = se.Code
	}
	return envelopeError(method, envelope)
}

func envelopeError(method string, envelope apiResponse) error {
	apiErr := &APIError{Method: method, Code: envelope.ErrorCode, Description: envelope.Description}
	if envelope.Parameters != nil {
		apiErr.RetryAfter = envelope.Parameters.RetryAfter
	}
	return apiErr
}

func jsonBody(v any) func() (io.Reader, string, error) {
	return func() (io.Reader, string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// UploadStickerFile uploads a static PNG and returns its file id.
func (c *Client) UploadStickerFile(ctx context.Context, userID int64, filename string, png []byte) (string, error) {
	build := func() (io.Reader, string, error) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if err := w.WriteField("user_id", strconv.FormatInt(userID, 10)); err != nil {
			return nil, "", err
		}
		if err := w.WriteField("sticker_format", StickerFormatStatic); err != nil {
			return nil, "", err
		}
		part, err := w.CreateFormFile("sticker", filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(png); err != nil {
			return nil, "", err
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	}

	var file File
	if err := c.call(ctx, "uploadStickerFile", build, &file); err != nil {
		return "", err
	}
	if file.FileID == "" {
		return "", fmt.Errorf("telegram uploadStickerFile: empty file id")
	}
	return file.FileID, nil
}

// GetStickerSet returns the set by name. A missing set yields an *APIError
// for which IsStickerSetNotFound is true.
func (c *Client) GetStickerSet(ctx context.Context, name string) (*StickerSet, error) {
	var set StickerSet
	if err := c.call(ctx, "getStickerSet", jsonBody(map[string]any{"name": name}), &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// CreateNewStickerSet creates a regular sticker set owned by userID.
func (c *Client) CreateNewStickerSet(ctx context.Context, userID int64, name, title string, stickers []InputSticker) error {
	return c.call(ctx, "createNewStickerSet", jsonBody(map[string]any{
		"user_id":      userID,
		"name":         name,
		"title":        title,
		"stickers":     stickers,
		"sticker_type": "regular",
	}), nil)
}

// ReplaceStickerInSet swaps oldFileID for sticker, keeping its position.
func (c *Client) ReplaceStickerInSet(ctx context.Context, userID int64, name, oldFileID string, sticker InputSticker) error {
	return c.call(ctx, "replaceStickerInSet", jsonBody(map[string]any{
		"user_id":     userID,
		"name":        name,
		"old_sticker": oldFileID,
		"sticker":     sticker,
	}), nil)
}

// AddStickerToSet appends sticker to the end of the set.
func (c *Client) AddStickerToSet(ctx context.Context, userID int64, name string, sticker InputSticker) error {
	return c.call(ctx, "addStickerToSet", jsonBody(map[string]any{
		"user_id": userID,
		"name":    name,
		"sticker": sticker,
	}), nil)
}

// DeleteStickerFromSet removes a sticker by file id.
func (c *Client) DeleteStickerFromSet(ctx context.Context, fileID string) error {
	return c.call(ctx, "deleteStickerFromSet", jsonBody(map[string]any{"sticker": fileID}), nil)
}
