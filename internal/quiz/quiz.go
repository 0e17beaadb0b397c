// Package quiz turns exported knowledge-graph triples into study questions
// via a locally hosted model served over an OpenAI-compatible endpoint.
package quiz

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/samber/oops"

	"github.com/conceptmap/conceptmap/internal/config"
	"github.com/conceptmap/conceptmap/internal/logger"
)

// Question formats.
const (
	FormatOpen = "open"
	FormatMCQ  = "mcq"
)

// Triple is one (subject, predicate, object) fact with resolved labels.
type Triple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// thinkPattern strips <think>...</think> reasoning blocks emitted by some
// local models.
var thinkPattern = regexp.MustCompile(`(?s)<think>.*?</think>\s*`)

// Generator produces quiz questions from triples.
type Generator struct {
	client       openai.Client
	defaultModel string
	log          *logger.Logger
}

// New creates a Generator pointed at the configured local endpoint. Ollama
// serves the OpenAI-compatible API under /v1 and ignores the API key.
func New(cfg *config.OllamaConfig, log *logger.Logger) *Generator {
	client := openai.NewClient(
		option.WithBaseURL(strings.TrimSuffix(cfg.Endpoint, "/")+"/v1"),
		option.WithAPIKey("ollama"),
	)
	return &Generator{
		client:       client,
		defaultModel: cfg.Model,
		log:          log,
	}
}

// Generate produces quiz questions for the given triples. Format is "open"
// for free-form questions or "mcq" for multiple choice; graphEntities seed
// the distractor pool for multiple choice. An empty model falls back to the
// configured default.
func (g *Generator) Generate(ctx context.Context, triples []Triple, format string, graphEntities []string, model string) (string, error) {
	if len(triples) == 0 {
		return "", oops.In("quiz").Errorf("no triples provided")
	}
	if model == "" {
		model = g.defaultModel
	}

	lines := make([]string, len(triples))
	for i, t := range triples {
		lines[i] = fmt.Sprintf("%s -- %s -- %s", t.Subject, t.Predicate, t.Object)
	}
	userPrompt := "Triples:\n" + strings.Join(lines, "\n")

	systemPrompt := openPrompt
	if format == FormatMCQ {
		systemPrompt = fmt.Sprintf(mcqPrompt, strings.Join(graphEntities, ", "))
	}

	g.log.Debugw("generating questions", "model", model, "triples", len(triples), "format", format)

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", oops.In("quiz").With("model", model).Wrapf(err, "completion failed")
	}
	if len(completion.Choices) == 0 {
		return "", oops.In("quiz").With("model", model).Errorf("completion returned no choices")
	}

	text := thinkPattern.ReplaceAllString(completion.Choices[0].Message.Content, "")
	return strings.TrimSpace(text), nil
}

// Models lists the models available at the local endpoint.
func (g *Generator) Models(ctx context.Context) ([]string, error) {
	page, err := g.client.Models.List(ctx)
	if err != nil {
		return nil, oops.In("quiz").Wrapf(err, "list models")
	}

	names := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		names = append(names, m.ID)
	}
	return names, nil
}
