package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"videogen/internal/domain"
	"videogen/internal/infra"
	"videogen/internal/progress"
	"videogen/internal/providers/genai"
)

// Upstream reports a missing or invalid API key as a not-found entity. The
// structured status is preferred for classification; the substring is kept as
// a shim for errors that arrive as bare text. Known fragility: the provider
// does not guarantee this wording.
const entityNotFoundMarker = "Requested entity was not found"

// KeySource resolves the credential at call time.
type KeySource interface {
	APIKey(ctx context.Context) (string, error)
}

// VeoOptions configures the Veo generator.
type VeoOptions struct {
	Keys         KeySource
	BaseURL      string
	Model        string
	PollInterval time.Duration
	HTTPClient   *http.Client
	Logger       *infra.Logger
}

// Veo generates videos through the Gemini long-running operation API: submit
// once, then poll the operation handle until done, surfacing progress text on
// every tick. No step is retried; the first error ends the request.
type Veo struct {
	keys         KeySource
	baseURL      string
	model        string
	pollInterval time.Duration
	httpClient   *http.Client
	logger       *infra.Logger
}

func NewVeo(opts VeoOptions) *Veo {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Veo{
		keys:         opts.Keys,
		baseURL:      opts.BaseURL,
		model:        opts.Model,
		pollInterval: interval,
		httpClient:   opts.HTTPClient,
		logger:       logger,
	}
}

func (v *Veo) Generate(ctx context.Context, req GenerateRequest, onProgress ProgressFunc) (*Asset, error) {
	emit := func(message string) {
		if onProgress != nil {
			onProgress(message)
		}
	}
	cursor := progress.NewCursor(progress.Sequence(req.Locale))
	emit(cursor.Current())

	// The credential is resolved fresh per request; the cached gate status is
	// advisory only.
	key, err := v.keys.APIKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderFailure, err.Error())
	}
	if key == "" {
		return nil, domain.ErrKeyNotConfigured
	}

	client, err := genai.NewClient(genai.Options{
		APIKey:     key,
		BaseURL:    v.baseURL,
		Model:      v.model,
		HTTPClient: v.httpClient,
		Logger:     v.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderFailure, err.Error())
	}

	op, err := client.StartVideoGeneration(ctx, genai.VideoRequest{
		Prompt:    req.Prompt,
		RequestID: req.RequestID,
	})
	if err != nil {
		return nil, classify(err)
	}

	for !op.Done {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(v.pollInterval):
		}
		op, err = client.GetOperation(ctx, op.Name)
		if err != nil {
			return nil, classify(err)
		}
		if !op.Done {
			emit(cursor.Advance())
		}
	}

	emit(cursor.Final())

	if op.Error != nil {
		return nil, classifyOperationError(op.Error)
	}

	uri := op.FirstVideoURI()
	if uri == "" {
		return nil, domain.ErrNoDownloadLink
	}

	v.logger.Info().
		Str("request_id", req.RequestID).
		Str("operation", op.Name).
		Msg("video: generation completed")

	return &Asset{URL: client.DownloadURL(uri), Operation: op.Name}, nil
}

// Fetch downloads the bytes behind a ready-to-use fetch URI, as produced by
// Generate. The URI already carries the provider credential, so no key is
// resolved here.
func (v *Veo) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	httpClient := v.httpClient
	if httpClient == nil {
		// Video payloads outlive the API client's default timeout.
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	client, err := genai.NewClient(genai.Options{
		BaseURL:    v.baseURL,
		Model:      v.model,
		HTTPClient: httpClient,
		Logger:     v.logger,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrProviderFailure, err.Error())
	}
	return client.FetchVideo(ctx, uri)
}

// classify maps provider errors to the domain taxonomy: a not-found entity
// means the key itself is bad, everything else is a generic generation
// failure carrying the upstream message.
func classify(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == "NOT_FOUND" || strings.Contains(apiErr.Message, entityNotFoundMarker) {
			return fmt.Errorf("%w: %s", domain.ErrKeyInvalid, apiErr.Message)
		}
		return fmt.Errorf("%w: %s", domain.ErrProviderFailure, apiErr.Error())
	}
	if strings.Contains(err.Error(), entityNotFoundMarker) {
		return fmt.Errorf("%w: %s", domain.ErrKeyInvalid, err.Error())
	}
	return fmt.Errorf("%w: %s", domain.ErrProviderFailure, err.Error())
}

func classifyOperationError(opErr *genai.OperationError) error {
	if opErr.Status == "NOT_FOUND" || strings.Contains(opErr.Message, entityNotFoundMarker) {
		return fmt.Errorf("%w: %s", domain.ErrKeyInvalid, opErr.Message)
	}
	if opErr.Message != "" {
		return fmt.Errorf("%w: %s", domain.ErrProviderFailure, opErr.Message)
	}
	return fmt.Errorf("%w: operation failed with status %s", domain.ErrProviderFailure, opErr.Status)
}

var _ Generator = (*Veo)(nil)
var _ Fetcher = (*Veo)(nil)
