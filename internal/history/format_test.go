package history

import (
	"encoding/json"
	"strings"
	"testing"

	"opaemu-backend/internal/model"
)

func TestFormatAdviceScoreRounding(t *testing.T) {
	var res model.AiResult
	if err := json.Unmarshal([]byte(`{"analysis": {"aesthetics_score_h1": 0.8765}}`), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out := FormatAdvice(&res)
	if !strings.Contains(out, "Aesthetics: 0.88") {
		t.Errorf("expected two-decimal rounding, got:\n%s", out)
	}
	if !strings.Contains(out, missingCompatibility) {
		t.Errorf("expected compatibility placeholder, got:\n%s", out)
	}
}

func TestFormatAdviceNumericStringScore(t *testing.T) {
	var res model.AiResult
	if err := json.Unmarshal([]byte(`{"analysis": {"compatibility_score_h2": "0.5"}}`), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out := FormatAdvice(&res)
	if !strings.Contains(out, "Compatibility: 0.50") {
		t.Errorf("numeric string score not formatted, got:\n%s", out)
	}
}

func TestFormatAdviceNonNumericScore(t *testing.T) {
	var res model.AiResult
	if err := json.Unmarshal([]byte(`{"analysis": {"aesthetics_score_h1": "great"}}`), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out := FormatAdvice(&res)
	if !strings.Contains(out, missingAesthetics) {
		t.Errorf("non-numeric score must fall back to placeholder, got:\n%s", out)
	}
}

func TestFormatAdvicePositivePointsPolymorphism(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantLines []string
	}{
		{
			name:      "single string",
			raw:       `{"llm_advice": {"positive_points": "only one point"}}`,
			wantLines: []string{"• only one point"},
		},
		{
			name:      "array",
			raw:       `{"llm_advice": {"positive_points": ["a", "b"]}}`,
			wantLines: []string{"• a", "• b"},
		},
	}

	for _, tt := range tests {
		var res model.AiResult
		if err := json.Unmarshal([]byte(tt.raw), &res); err != nil {
			t.Fatalf("%s: unmarshal: %v", tt.name, err)
		}

		out := FormatAdvice(&res)
		var bullets []string
		for _, line := range strings.Split(out, "\n") {
			if strings.HasPrefix(line, "• ") {
				bullets = append(bullets, line)
			}
		}

		if len(bullets) != len(tt.wantLines) {
			t.Fatalf("%s: got %d bullets, want %d:\n%s", tt.name, len(bullets), len(tt.wantLines), out)
		}
		for i, want := range tt.wantLines {
			if bullets[i] != want {
				t.Errorf("%s: bullet %d = %q, want %q", tt.name, i, bullets[i], want)
			}
		}
	}
}

func TestFormatAdviceBlockOrder(t *testing.T) {
	var res model.AiResult
	if err := json.Unmarshal([]byte(`{
		"analysis": {"aesthetics_score_h1": 1, "compatibility_score_h2": 0.2},
		"llm_advice": {"one_line_summary": "s", "positive_points": ["p"], "suggestion": "try x"}
	}`), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out := FormatAdvice(&res)
	blocks := strings.Split(out, "\n\n")
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks separated by blank lines, got %d:\n%s", len(blocks), out)
	}

	wantHeaders := []string{"[Score]", "[Summary]", "[Highlights]", "[Suggestion]"}
	for i, h := range wantHeaders {
		if !strings.HasPrefix(blocks[i], h) {
			t.Errorf("block %d should start with %s:\n%s", i, h, blocks[i])
		}
	}
}

func TestFormatAdviceNeverEmpty(t *testing.T) {
	tests := []struct {
		name string
		res  *model.AiResult
	}{
		{"nil result", nil},
		{"zero result", &model.AiResult{}},
	}

	for _, tt := range tests {
		out := FormatAdvice(tt.res)
		if out == "" {
			t.Errorf("%s: output must be non-empty", tt.name)
		}
		for _, want := range []string{missingAesthetics, missingCompatibility, missingSummary, missingHighlights, missingSuggestion} {
			if !strings.Contains(out, want) {
				t.Errorf("%s: missing placeholder %q", tt.name, want)
			}
		}
	}
}
