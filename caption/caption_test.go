package caption

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func completionJSON(text string) string {
	return `{"choices":[{"message":{"content":` + jsonQuote(text) + `}}]}`
}

func jsonQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestDescribe(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		io.WriteString(w, completionJSON("A diagram of two boxes connected by an arrow."))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "sk-test", Model: "test-model", Logger: testLogger()})
	desc, err := c.Describe(context.Background(), []byte("imagebytes"), "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if desc != "A diagram of two boxes connected by an arrow." {
		t.Errorf("description = %q", desc)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotBody["model"] != "test-model" {
		t.Errorf("model = %v", gotBody["model"])
	}

	messages := gotBody["messages"].([]any)
	content := messages[0].(map[string]any)["content"].([]any)
	if len(content) != 2 {
		t.Fatalf("content parts = %d, want 2", len(content))
	}
	imagePart := content[1].(map[string]any)
	url := imagePart["image_url"].(map[string]any)["url"].(string)
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("image url = %q, want data URI", url)
	}
}

func TestDescribeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "k", Logger: testLogger()})
	_, err := c.Describe(context.Background(), []byte("x"), "image/png")
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Errorf("error missing status or body: %v", err)
	}
}

func TestDescribeEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "k", Logger: testLogger()})
	if _, err := c.Describe(context.Background(), []byte("x"), ""); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "captions.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "deadbeef"); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	if err := cache.Put(ctx, "deadbeef", "a picture"); err != nil {
		t.Fatal(err)
	}
	got, ok, err := cache.Get(ctx, "deadbeef")
	if err != nil || !ok || got != "a picture" {
		t.Fatalf("get after put: %q ok=%v err=%v", got, ok, err)
	}

	// Re-putting the same key replaces the entry.
	if err := cache.Put(ctx, "deadbeef", "an updated picture"); err != nil {
		t.Fatal(err)
	}
	got, _, _ = cache.Get(ctx, "deadbeef")
	if got != "an updated picture" {
		t.Errorf("replaced caption = %q", got)
	}
}

func TestDescribeFileUsesCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		io.WriteString(w, completionJSON("a chart"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	img := filepath.Join(dir, "image1.png")
	if err := os.WriteFile(img, []byte("png bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	cache, err := OpenCache(filepath.Join(dir, "captions.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	client := New(Config{BaseURL: srv.URL, APIKey: "k", Logger: testLogger()})
	d := NewDescriber(client, cache, testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		desc, err := d.DescribeFile(ctx, img)
		if err != nil {
			t.Fatal(err)
		}
		if desc != "a chart" {
			t.Errorf("call %d: description = %q", i, desc)
		}
	}
	if calls != 1 {
		t.Errorf("service called %d times, want 1 (cache misses)", calls)
	}
}

func TestDescribeFileWithoutCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		io.WriteString(w, completionJSON("a photo"))
	}))
	defer srv.Close()

	img := filepath.Join(t.TempDir(), "image1.jpg")
	if err := os.WriteFile(img, []byte("jpg bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	d := NewDescriber(New(Config{BaseURL: srv.URL, APIKey: "k", Logger: testLogger()}), nil, testLogger())
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := d.DescribeFile(ctx, img); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 2 {
		t.Errorf("service called %d times, want 2 without a cache", calls)
	}
}
