package analyzer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"opaemu-backend/internal/config"
)

func TestAnalyzeRequestAndDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/analyze" {
			t.Errorf("path = %q", r.URL.Path)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file field: %v", err)
		}
		defer file.Close()

		if header.Filename != "fit.jpg" {
			t.Errorf("filename = %q", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "jpegbytes" {
			t.Errorf("file content = %q", data)
		}

		w.Header().Set("Content-Type", "application/json")
		// Scores intentionally mix types; the client must absorb both.
		w.Write([]byte(`{"analysis": {"aesthetics_score_h1": 0.91, "compatibility_score_h2": "0.7"}}`))
	}))
	defer srv.Close()

	c := NewClient(config.AnalyzerConfig{BaseURL: srv.URL})
	got, err := c.Analyze(context.Background(), "fit.jpg", []byte("jpegbytes"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if !got.AestheticsScore.Valid || got.AestheticsScore.Value != 0.91 {
		t.Errorf("aesthetics = %+v", got.AestheticsScore)
	}
	if !got.CompatibilityScore.Valid || got.CompatibilityScore.Value != 0.7 {
		t.Errorf("compatibility = %+v", got.CompatibilityScore)
	}
}

func TestAnalyzeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(config.AnalyzerConfig{BaseURL: srv.URL})
	if _, err := c.Analyze(context.Background(), "fit.jpg", []byte("x")); err == nil {
		t.Error("expected error on 500 response")
	}
}
