package video

import "context"

// GenerateRequest carries one validated prompt submission. Locale picks the
// progress message language; RequestID ties the provider calls to the HTTP
// request in logs.
type GenerateRequest struct {
	Prompt    string
	Locale    string
	RequestID string
}

// Asset is a completed generation: URL is ready to fetch as-is (the provider
// credential is already appended).
type Asset struct {
	URL       string
	Operation string
}

// ProgressFunc receives human-readable status text. Calls are sequential, in
// order, and stop before Generate returns.
type ProgressFunc func(message string)

// Generator runs one generation from submission to a playable asset.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest, onProgress ProgressFunc) (*Asset, error)
}

// Fetcher retrieves the bytes behind an Asset URL, returning them with the
// provider's content type. The download handler uses it to stream and cache
// finished videos.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, string, error)
}
