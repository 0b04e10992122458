// Package llm provides a zero-shot intent classifier that prompts a
// language model with the candidate labels.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
)

// Ensure Classifier implements the interfaces.
var (
	_ driven.IntentClassifier = (*Classifier)(nil)
	_ driven.PromptStoreAware = (*Classifier)(nil)
)

// defaultClassifyPrompt is the fallback when no PromptStore is configured.
const defaultClassifyPrompt = `Classify the shopping query into exactly one of the candidate categories.

Candidate categories:
%s

Query: %s

Respond with a single JSON object and nothing else:
{"label": "<one candidate category, copied exactly>", "confidence": <number between 0 and 1>}`

// defaultSystemPrompt is the fallback system prompt.
const defaultSystemPrompt = `You are a product intent classifier for an online shop. ` +
	`Only ever answer with one of the candidate categories you are given.`

// maxVerdictTokens bounds the model reply; a verdict is a short JSON object.
const maxVerdictTokens = 128

// Classifier asks an LLM to pick one of the candidate labels.
type Classifier struct {
	llm driven.LLMService

	mu          sync.RWMutex
	promptStore driven.PromptStore
}

// New creates an LLM classifier.
func New(llm driven.LLMService) *Classifier {
	return &Classifier{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the classifier uses hardcoded default prompts.
func (c *Classifier) SetPromptStore(store driven.PromptStore) {
	c.mu.Lock()
	c.promptStore = store
	c.mu.Unlock()
}

// Name identifies the classifier strategy.
func (c *Classifier) Name() string {
	return string(domain.ClassifierLLM)
}

// Classify prompts the LLM with labels and parses its JSON verdict.
// The label is returned as the model wrote it; callers check membership.
func (c *Classifier) Classify(ctx context.Context, text string, labels []string) (domain.Classification, error) {
	if len(labels) == 0 {
		return domain.Classification{}, fmt.Errorf("%w: no labels", domain.ErrInvalidInput)
	}
	if c.llm == nil {
		return domain.Classification{}, domain.ErrLLMUnavailable
	}

	var list strings.Builder
	for _, label := range labels {
		list.WriteString("- ")
		list.WriteString(label)
		list.WriteByte('\n')
	}

	template := c.loadPrompt(driven.PromptZeroShotClassify, defaultClassifyPrompt)
	if !validClassifyTemplate(template) {
		template = defaultClassifyPrompt
	}
	prompt := fmt.Sprintf(template, strings.TrimRight(list.String(), "\n"), text)

	reply, err := c.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: c.loadPrompt(driven.PromptClassifySystem, defaultSystemPrompt)},
		{Role: "user", Content: prompt},
	}, driven.ChatOptions{MaxTokens: maxVerdictTokens, JSON: true})
	if err != nil {
		return domain.Classification{}, fmt.Errorf("classify: %w", err)
	}

	label, confidence, err := parseVerdict(reply, labels)
	if err != nil {
		return domain.Classification{}, err
	}

	return domain.Classification{
		Label:      label,
		Confidence: confidence,
		Scores:     map[string]float64{label: confidence},
	}, nil
}

// Close releases resources. The LLM service is owned by the caller.
func (c *Classifier) Close() error {
	return nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (c *Classifier) loadPrompt(name, fallback string) string {
	c.mu.RLock()
	store := c.promptStore
	c.mu.RUnlock()

	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// validClassifyTemplate reports whether template takes exactly the label list
// and the query, as two plain %s verbs in that order. %% escapes are allowed.
func validClassifyTemplate(template string) bool {
	unescaped := strings.ReplaceAll(template, "%%", "")
	return strings.Count(unescaped, "%") == 2 && strings.Count(unescaped, "%s") == 2
}

// verdict is the JSON object the model is asked to produce.
type verdict struct {
	Label      string   `json:"label"`
	Confidence *float64 `json:"confidence"`
}

// parseVerdict extracts label and confidence from a model reply.
// The reply may wrap the JSON object in prose or code fences. A reply that
// is just one of labels is accepted with full confidence. A missing
// confidence counts as 1; percentages are scaled to [0, 1].
func parseVerdict(reply string, labels []string) (string, float64, error) {
	reply = strings.TrimSpace(reply)

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		bare := strings.Trim(reply, "\"'`. \n")
		for _, l := range labels {
			if strings.EqualFold(l, bare) {
				return l, 1, nil
			}
		}
		return "", 0, fmt.Errorf("classify: no JSON verdict in reply %q", reply)
	}

	var v verdict
	if err := json.Unmarshal([]byte(reply[start:end+1]), &v); err != nil {
		return "", 0, fmt.Errorf("classify: decode verdict: %w", err)
	}
	if strings.TrimSpace(v.Label) == "" {
		return "", 0, fmt.Errorf("classify: verdict has no label")
	}

	confidence := 1.0
	if v.Confidence != nil {
		confidence = *v.Confidence
	}
	if math.IsNaN(confidence) || confidence < 0 {
		confidence = 0
	}
	if confidence > 1 && confidence <= 100 {
		confidence /= 100
	}
	if confidence > 1 {
		confidence = 1
	}

	return strings.TrimSpace(v.Label), confidence, nil
}
