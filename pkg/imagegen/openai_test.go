package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diagramforge/diagramforge/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*openAIClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL}), srv
}

func TestGenerateSuccess(t *testing.T) {
	imageBytes := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}

	var gotAuth string
	var gotBody apiRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/images/generations" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString(imageBytes)}},
		})
	})

	got, err := client.Generate(context.Background(), Request{
		Prompt: "a block diagram",
		Model:  DefaultModel,
		Size:   DefaultSize,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if string(got) != string(imageBytes) {
		t.Errorf("Generate() = %v, want %v", got, imageBytes)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody.Model != DefaultModel || gotBody.Size != DefaultSize || gotBody.Prompt != "a block diagram" {
		t.Errorf("request body = %+v", gotBody)
	}
}

func TestGenerateMissingCredential(t *testing.T) {
	// The server must never be reached: the credential check precedes I/O.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("network call attempted without credential")
	})
	client.apiKey = ""

	_, err := client.Generate(context.Background(), Request{Prompt: "p", Model: DefaultModel, Size: DefaultSize})
	if !errors.Is(err, errors.ErrCodeConfigMissing) {
		t.Errorf("Generate() error = %v, want CONFIG_MISSING", err)
	}
}

func TestGenerateServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error with api message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{"message": "Incorrect API key provided", "type": "invalid_request_error"},
				})
			},
		},
		{
			name: "empty data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
			},
		},
		{
			name: "missing payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"data": []map[string]string{{"b64_json": ""}}})
			},
		},
		{
			name: "invalid base64",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"data": []map[string]string{{"b64_json": "!!not-base64!!"}}})
			},
		},
		{
			name: "non-JSON body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>gateway error</html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)
			_, err := client.Generate(context.Background(), Request{Prompt: "p", Model: DefaultModel, Size: DefaultSize})
			if !errors.Is(err, errors.ErrCodeService) {
				t.Errorf("Generate() error = %v, want SERVICE_ERROR", err)
			}
		})
	}
}

func TestGenerateTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := newOpenAIClient(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := client.Generate(context.Background(), Request{Prompt: "p", Model: DefaultModel, Size: DefaultSize})
	if !errors.Is(err, errors.ErrCodeService) {
		t.Errorf("Generate() error = %v, want SERVICE_ERROR", err)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		wantErr  bool
	}{
		{"default provider", "", false},
		{"openai", "openai", false},
		{"case-insensitive", "OpenAI", false},
		{"unknown provider", "dalle", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := New(Config{Provider: tt.provider, APIKey: "k"})
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeDependency) {
					t.Errorf("New() error = %v, want DEPENDENCY_UNAVAILABLE", err)
				}
				if err != nil && !strings.Contains(errors.UserMessage(err), "Supported providers") {
					t.Errorf("New() hint missing remediation: %v", errors.UserMessage(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if gen == nil {
				t.Fatal("New() returned nil Generator")
			}
		})
	}
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		size    string
		wantErr bool
	}{
		{"1536x1024", false},
		{"1024x1024", false},
		{"", true},
		{"1536", true},
		{"x1024", true},
		{"1536x", true},
		{"widexhigh", true},
		{"1536x1024x2", true},
	}

	for _, tt := range tests {
		err := ValidateSize(tt.size)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSize(%q) error = %v, wantErr %v", tt.size, err, tt.wantErr)
		}
	}
}
