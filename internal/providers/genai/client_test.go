package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStartVideoGeneration(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/models/veo-2.0-generate-001:predictLongRunning" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Fatalf("unexpected key param: %q", got)
		}
		var payload predictLongRunningRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(payload.Instances) != 1 || payload.Instances[0].Prompt != "a cat skateboarding" {
			t.Fatalf("unexpected instances: %+v", payload.Instances)
		}
		if payload.Parameters.SampleCount != 1 ||
			payload.Parameters.Resolution != "720p" ||
			payload.Parameters.AspectRatio != "16:9" {
			t.Fatalf("unexpected parameters: %+v", payload.Parameters)
		}
		_ = json.NewEncoder(w).Encode(Operation{Name: "operations/op-1"})
	}))
	defer ts.Close()

	client, err := NewClient(Options{APIKey: "test-key", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	op, err := client.StartVideoGeneration(context.Background(), VideoRequest{Prompt: "a cat skateboarding"})
	if err != nil {
		t.Fatalf("StartVideoGeneration error: %v", err)
	}
	if op.Name != "operations/op-1" || op.Done {
		t.Fatalf("unexpected operation: %+v", op)
	}
}

func TestGetOperation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/operations/op-1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(Operation{
			Name: "operations/op-1",
			Done: true,
			Response: &OperationResponse{
				GenerateVideoResponse: &GenerateVideoResponse{
					GeneratedSamples: []GeneratedSample{{Video: &GeneratedVideo{URI: "https://x/video.mp4"}}},
				},
			},
		})
	}))
	defer ts.Close()

	client, err := NewClient(Options{APIKey: "test-key", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	op, err := client.GetOperation(context.Background(), "operations/op-1")
	if err != nil {
		t.Fatalf("GetOperation error: %v", err)
	}
	if !op.Done {
		t.Fatal("expected done operation")
	}
	if got := op.FirstVideoURI(); got != "https://x/video.mp4" {
		t.Fatalf("FirstVideoURI() = %q", got)
	}
}

func TestGetOperationEmptyName(t *testing.T) {
	client, err := NewClient(Options{APIKey: "k"})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	if _, err := client.GetOperation(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty operation name")
	}
}

func TestInvokeDecodesAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found.","status":"NOT_FOUND"}}`))
	}))
	defer ts.Close()

	client, err := NewClient(Options{APIKey: "bad-key", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	_, err = client.StartVideoGeneration(context.Background(), VideoRequest{Prompt: "hi"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T %v", err, err)
	}
	if apiErr.StatusCode != 404 || apiErr.Status != "NOT_FOUND" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
	if apiErr.Message != "Requested entity was not found." {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestInvokeOpaqueErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer ts.Close()

	client, err := NewClient(Options{APIKey: "k", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	_, err = client.StartVideoGeneration(context.Background(), VideoRequest{Prompt: "hi"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T %v", err, err)
	}
	if apiErr.Status != "" || apiErr.Message != "upstream exploded" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
}

func TestFetchVideo(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "K" {
			t.Fatalf("expected key carried by the uri, got %q", got)
		}
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write([]byte("mp4-bytes"))
	}))
	defer ts.Close()

	client, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	data, contentType, err := client.FetchVideo(context.Background(), ts.URL+"/video.mp4?alt=media&key=K")
	if err != nil {
		t.Fatalf("FetchVideo error: %v", err)
	}
	if string(data) != "mp4-bytes" {
		t.Fatalf("data = %q", data)
	}
	if contentType != "video/mp4" {
		t.Fatalf("content type = %q", contentType)
	}
}

func TestFetchVideoErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("key revoked"))
	}))
	defer ts.Close()

	client, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	if _, _, err := client.FetchVideo(context.Background(), ts.URL); err == nil {
		t.Fatal("expected error for rejected download")
	}
}

func TestDownloadURL(t *testing.T) {
	client, err := NewClient(Options{APIKey: "K"})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	if got := client.DownloadURL("https://x/video.mp4"); got != "https://x/video.mp4&key=K" {
		t.Fatalf("DownloadURL() = %q", got)
	}
}

func TestFirstVideoURIMissing(t *testing.T) {
	cases := []*Operation{
		nil,
		{Done: true},
		{Done: true, Response: &OperationResponse{}},
		{Done: true, Response: &OperationResponse{GenerateVideoResponse: &GenerateVideoResponse{}}},
		{Done: true, Response: &OperationResponse{GenerateVideoResponse: &GenerateVideoResponse{
			GeneratedSamples: []GeneratedSample{{}},
		}}},
	}
	for i, op := range cases {
		if got := op.FirstVideoURI(); got != "" {
			t.Fatalf("case %d: FirstVideoURI() = %q, want empty", i, got)
		}
	}
}
