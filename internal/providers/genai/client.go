package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"videogen/internal/infra"
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a lightweight facade over the Gemini video API. Veo generations
// are long-running operations: StartVideoGeneration submits the request and
// returns an operation handle, GetOperation refreshes it until done. Clients
// are cheap and carry no state beyond configuration, so callers construct a
// fresh one per request to pick up credential rotations.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

// VideoRequest represents the information required to generate a video.
type VideoRequest struct {
	Prompt    string
	RequestID string
}

// Generation parameters are fixed: the form produces one 720p 16:9 video per
// submission.
const (
	videoSampleCount = 1
	videoResolution  = "720p"
	videoAspectRatio = "16:9"
)

// Operation is the provider's handle for an in-flight generation. Name is
// opaque and owned by the caller for the duration of one request.
type Operation struct {
	Name     string             `json:"name"`
	Done     bool               `json:"done"`
	Error    *OperationError    `json:"error,omitempty"`
	Response *OperationResponse `json:"response,omitempty"`
}

// OperationError is the structured failure a done operation may carry in
// place of a response.
type OperationError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
}

type OperationResponse struct {
	GenerateVideoResponse *GenerateVideoResponse `json:"generateVideoResponse,omitempty"`
}

type GenerateVideoResponse struct {
	GeneratedSamples []GeneratedSample `json:"generatedSamples,omitempty"`
}

type GeneratedSample struct {
	Video *GeneratedVideo `json:"video,omitempty"`
}

type GeneratedVideo struct {
	URI string `json:"uri,omitempty"`
}

// FirstVideoURI returns the URI of the first generated sample, or "" when the
// response carries none.
func (o *Operation) FirstVideoURI() string {
	if o == nil || o.Response == nil || o.Response.GenerateVideoResponse == nil {
		return ""
	}
	for _, sample := range o.Response.GenerateVideoResponse.GeneratedSamples {
		if sample.Video != nil && sample.Video.URI != "" {
			return sample.Video.URI
		}
	}
	return ""
}

type predictLongRunningRequest struct {
	Instances  []videoInstance `json:"instances"`
	Parameters videoParameters `json:"parameters"`
}

type videoInstance struct {
	Prompt string `json:"prompt"`
}

type videoParameters struct {
	SampleCount int    `json:"sampleCount"`
	Resolution  string `json:"resolution"`
	AspectRatio string `json:"aspectRatio"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
		Status  string `json:"status,omitempty"`
	} `json:"error"`
}

// APIError is a non-2xx response from the provider, decoded from its error
// JSON when possible. Status carries the structured code (e.g. NOT_FOUND)
// used for error classification.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gemini status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gemini status %d", e.StatusCode)
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with sensible timeouts will be
// created.
func NewClient(opts Options) (*Client, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	model := opts.Model
	if model == "" {
		model = "veo-2.0-generate-001"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: client,
		logger:     logger,
	}, nil
}

// StartVideoGeneration submits one generation request and returns the
// provider's operation handle.
func (c *Client) StartVideoGeneration(ctx context.Context, req VideoRequest) (*Operation, error) {
	payload := predictLongRunningRequest{
		Instances: []videoInstance{{Prompt: req.Prompt}},
		Parameters: videoParameters{
			SampleCount: videoSampleCount,
			Resolution:  videoResolution,
			AspectRatio: videoAspectRatio,
		},
	}

	var op Operation
	path := fmt.Sprintf("/models/%s:predictLongRunning", url.PathEscape(c.model))
	if err := c.invoke(ctx, http.MethodPost, path, payload, &op); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("request_id", req.RequestID).
		Str("model", c.model).
		Str("operation", op.Name).
		Msg("genai: video generation submitted")

	return &op, nil
}

// GetOperation refreshes an operation handle by name.
func (c *Client) GetOperation(ctx context.Context, name string) (*Operation, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("operation name is required")
	}

	var op Operation
	if err := c.invoke(ctx, http.MethodGet, "/"+strings.TrimLeft(name, "/"), nil, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// DownloadURL appends the API key to a generated video URI. The provider's
// file endpoint requires the key as a query parameter, so the result is a
// ready-to-use fetch URI rather than a raw resource identifier.
func (c *Client) DownloadURL(uri string) string {
	return uri + "&key=" + c.apiKey
}

// FetchVideo downloads the video bytes behind a ready-to-use fetch URI and
// returns them together with the response content type.
func (c *Client) FetchVideo(ctx context.Context, uri string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("download video status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read video: %w", err)
	}
	return blob, resp.Header.Get("Content-Type"), nil
}

func (c *Client) invoke(ctx context.Context, method, path string, payload any, out any) error {
	endpoint := c.baseURL + path

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	req.URL.RawQuery = q.Encode()
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var decoded apiErrorResponse
		data, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(data, &decoded); err == nil && decoded.Error.Message != "" {
			apiErr.Status = decoded.Error.Status
			apiErr.Message = decoded.Error.Message
		} else if len(data) > 0 {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}
