package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/MrSnakeDoc/linkvault/internal/domain"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/metrics"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// GeminiOptions configure the Gemini enricher.
type GeminiOptions struct {
	APIKey  string
	Model   string
	Timeout time.Duration // per call, 0 = request context only
}

// Gemini asks a Gemini model for a JSON {description, tags} object.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	log     logger.Logger
	obs     Observer
}

// NewGemini returns a Gemini enricher, or Noop when no API key is set.
func NewGemini(ctx context.Context, opts GeminiOptions, log logger.Logger, obs Observer) (Enricher, error) {
	if opts.APIKey == "" {
		log.Warn("no Gemini API key provided, AI enrichment disabled")
		return Noop{Observer: obs}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	return &Gemini{
		client:  client,
		model:   model,
		timeout: opts.Timeout,
		log:     log.With(logger.String("model", model)),
		obs:     obs,
	}, nil
}

func (g *Gemini) Enrich(ctx context.Context, title, url string) Result {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(title, url)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	})
	if err != nil {
		g.fail("gemini enrichment failed", url, err)
		return Result{}
	}

	res, err := ParseResponse(resp.Text())
	if err != nil {
		g.fail("gemini returned an unusable response", url, err)
		return Result{}
	}

	outcome := metrics.OutcomeOK
	if res.IsEmpty() {
		outcome = metrics.OutcomeEmpty
	}
	g.observe(outcome)
	g.log.Debug("link enriched",
		logger.String("url", url),
		logger.Int("tags", len(res.Tags)),
		logger.Duration("elapsed", time.Since(start)))
	return res
}

func (g *Gemini) fail(msg, url string, err error) {
	g.observe(metrics.OutcomeError)
	g.log.Error(msg, logger.String("url", url), logger.Error(err))
}

func (g *Gemini) observe(outcome string) {
	if g.obs != nil {
		g.obs.ObserveEnrichment(outcome)
	}
}

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"description": {Type: genai.TypeString},
		"tags": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"description", "tags"},
}

// Prompt builds the instruction sent to the model.
func Prompt(title, url string) string {
	return fmt.Sprintf(`I have a saved weblink.
Title: %q
URL: %q

Please generate:
1. A short, concise summary (max 20 words) describing what this kind of link probably contains based on the title and URL structure.
2. A list of 3-5 relevant generic tags (e.g., "Technology", "Recipe", "News", "Dev", "Design").
`, title, url)
}

// ParseResponse decodes the model's JSON answer. An empty answer is an
// empty Result, not an error.
func ParseResponse(text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, nil
	}

	var payload struct {
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}

	res := Result{
		Description: strings.TrimSpace(payload.Description),
		Tags:        domain.CleanTags(payload.Tags),
	}
	if len(res.Tags) == 0 {
		res.Tags = nil
	}
	return res, nil
}
