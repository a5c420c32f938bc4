package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/killallgit/recipe-api/internal/models"
)

const reelURL = "https://www.instagram.com/reel/abc123/"

// fakeGemini answers every generateContent call with a complete recipe
func fakeGemini(t *testing.T) {
	t.Helper()
	recipe := `{"hasRecipe":true,"title":"Pancakes","ingredients":[{"name":"flour","amount":"200g"},{"name":"milk","amount":"300ml"}],"steps":[{"order":1,"instruction":"Whisk"},{"order":2,"instruction":"Fry"}],"confidenceScore":0.9}`
	body, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": recipe}}}},
		},
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	viper.Set("gemini.base_url", srv.URL+"/v1beta/models")
	viper.Set("gemini.api_key", "test-key")
}

func TestShareThenExtract(t *testing.T) {
	dir := useTempConfig(t)
	fakeGemini(t)

	output, err := execute(t, "share", reelURL, "--caption", "200g flour, 300ml milk. Whisk and fry.")
	if err != nil {
		t.Fatalf("share error = %v (%s)", err, output)
	}

	var payload models.ExtractionPayload
	if err := json.Unmarshal([]byte(output[strings.Index(output, "{"):]), &payload); err != nil {
		t.Fatalf("share output is not a payload: %v (%s)", err, output)
	}
	if payload.ID == "" || !payload.HasCaption() {
		t.Fatalf("Expected a payload with caption, got %+v", payload)
	}

	payloadFile := filepath.Join(dir, "shared", "pending_extraction.json")
	if _, err := os.Stat(payloadFile); err != nil {
		t.Fatalf("Expected payload file to exist: %v", err)
	}

	output, err = execute(t, "extract")
	if err != nil {
		t.Fatalf("extract error = %v (%s)", err, output)
	}
	if !strings.Contains(output, `"title": "Pancakes"`) {
		t.Errorf("Expected extracted recipe in output, got %q", output)
	}
	if _, err := os.Stat(payloadFile); !os.IsNotExist(err) {
		t.Error("Expected payload to be cleaned up after extraction")
	}
}

func TestExtractURLAndSave(t *testing.T) {
	useTempConfig(t)
	fakeGemini(t)

	output, err := execute(t, "extract", reelURL, "--caption", "flour and milk", "--save")
	if err != nil {
		t.Fatalf("extract error = %v (%s)", err, output)
	}
	if !strings.Contains(output, "Saved recipe 1") {
		t.Errorf("Expected saved recipe id, got %q", output)
	}

	output, err = execute(t, "migrate", "status")
	if err != nil {
		t.Fatalf("status error = %v", err)
	}
	if strings.Contains(output, "missing") {
		t.Errorf("Expected --save to migrate the schema, got %q", output)
	}
}

func TestExtractErrors(t *testing.T) {
	useTempConfig(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "nothing pending", args: []string{"extract"}, want: "no pending extraction"},
		{name: "unsupported url", args: []string{"extract", "https://example.com/video"}, want: ""},
		{name: "share unsupported url", args: []string{"share", "https://example.com/video"}, want: ""},
		{name: "share missing audio", args: []string{"share", reelURL, "--audio", "/does/not/exist.m4a"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
