package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkvault/internal/domain"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/metrics"
)

type recorder struct{ outcomes []string }

func (r *recorder) ObserveEnrichment(outcome string) { r.outcomes = append(r.outcomes, outcome) }

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Result
		wantErr  bool
	}{
		{
			name:     "full answer",
			input:    `{"description":"A Go blog.","tags":["Dev"," Go ","Dev"]}`,
			expected: Result{Description: "A Go blog.", Tags: []string{"Dev", "Go"}},
		},
		{name: "empty text", input: "  ", expected: Result{}},
		{name: "missing fields", input: `{}`, expected: Result{}},
		{name: "only tags", input: `{"tags":["News"]}`, expected: Result{Tags: []string{"News"}}},
		{name: "malformed", input: `{"description":`, wantErr: true},
		{name: "not an object", input: `["a"]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, got.IsEmpty())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPrompt(t *testing.T) {
	p := Prompt("Go Blog", "https://go.dev/blog")
	assert.Contains(t, p, `Title: "Go Blog"`)
	assert.Contains(t, p, `URL: "https://go.dev/blog"`)
	assert.Contains(t, p, "max 20 words")
	assert.Contains(t, p, "3-5")
}

func TestNewGeminiWithoutKeyIsNoop(t *testing.T) {
	obs := &recorder{}
	e, err := NewGemini(context.Background(), GeminiOptions{}, logger.NewNop(), obs)
	require.NoError(t, err)

	assert.Equal(t, "disabled", Mode(e))
	assert.True(t, e.Enrich(context.Background(), "t", "https://x").IsEmpty())
	assert.Equal(t, []string{metrics.OutcomeDisabled}, obs.outcomes)
}

func TestFunc(t *testing.T) {
	var e Enricher = Func(func(_ context.Context, title, url string) Result {
		return Result{Description: title + " " + url}
	})

	assert.Equal(t, "custom", Mode(e))
	assert.Equal(t, "a b", e.Enrich(context.Background(), "a", "b").Description)
}

func TestMode(t *testing.T) {
	assert.Equal(t, "disabled", Mode(nil))
	assert.Equal(t, "disabled", Mode(Noop{}))
	assert.Equal(t, "gemini", Mode(&Gemini{}))
}

func TestNoopOutcomeIsExported(t *testing.T) {
	m := metrics.New(func(context.Context) []domain.LinkRecord { return nil })
	Noop{Observer: m}.Enrich(context.Background(), "t", "https://x")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `linkvault_enrichments_total{outcome="disabled"} 1`)
}
