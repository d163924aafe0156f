package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyPrompt      = errors.New("prompt is required")
	ErrKeyNotConfigured = errors.New("api key not configured")
	ErrKeyInvalid       = errors.New("api key not found or invalid")
	ErrNoDownloadLink   = errors.New("no download link in response")
	ErrStoreUnavailable = errors.New("credential store unavailable")
	ErrGenerationBusy   = errors.New("generation already in progress")
	ErrProviderFailure  = errors.New("provider failure")
	ErrHistoryDisabled  = errors.New("generation history disabled")
)
