package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
)

type mockLLM struct {
	reply    string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.messages = messages
	m.opts = opts
	return m.reply, m.err
}

func (m *mockLLM) ModelName() string            { return "mock" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

type mockPrompts map[string]string

func (m mockPrompts) Load(name string) (string, error) {
	if p, ok := m[name]; ok {
		return p, nil
	}
	return "", errors.New("not found")
}

func (m mockPrompts) Reload() {}

func TestClassify_ParsesVerdict(t *testing.T) {
	llm := &mockLLM{reply: `{"label": "kitchen", "confidence": 0.82}`}
	c := New(llm)

	got, err := c.Classify(context.Background(), "i need a blender", []string{"kitchen", "garden"})
	require.NoError(t, err)

	assert.Equal(t, "kitchen", got.Label)
	assert.InDelta(t, 0.82, got.Confidence, 1e-9)
	assert.True(t, llm.opts.JSON)

	require.Len(t, llm.messages, 2)
	assert.Equal(t, "system", llm.messages[0].Role)
	assert.Contains(t, llm.messages[1].Content, "- kitchen\n- garden")
	assert.Contains(t, llm.messages[1].Content, "Query: i need a blender")
}

func TestClassify_UsesPromptStore(t *testing.T) {
	llm := &mockLLM{reply: `{"label":"garden"}`}
	c := New(llm)
	c.SetPromptStore(mockPrompts{
		driven.PromptZeroShotClassify: "LABELS:\n%s\nQ=%s",
		driven.PromptClassifySystem:   "custom system",
	})

	got, err := c.Classify(context.Background(), "hose", []string{"garden"})
	require.NoError(t, err)
	assert.Equal(t, "garden", got.Label)
	assert.Equal(t, 1.0, got.Confidence)
	assert.Equal(t, "custom system", llm.messages[0].Content)
	assert.Equal(t, "LABELS:\n- garden\nQ=hose", llm.messages[1].Content)
}

func TestClassify_MalformedTemplateFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"missing query verb", "Pick one of:\n%s"},
		{"no verbs", "Pick a category."},
		{"extra verb", "%s\n%s\n%s"},
		{"indexed verbs", "Query %[2]s from %[1]s"},
		{"other verb", "%s and %d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockLLM{reply: `{"label":"garden","confidence":0.5}`}
			c := New(llm)
			c.SetPromptStore(mockPrompts{driven.PromptZeroShotClassify: tt.template})

			_, err := c.Classify(context.Background(), "hose", []string{"garden"})
			require.NoError(t, err)

			content := llm.messages[1].Content
			assert.Contains(t, content, "- garden")
			assert.Contains(t, content, "Query: hose")
			assert.NotContains(t, content, "%!")
		})
	}
}

func TestValidClassifyTemplate(t *testing.T) {
	assert.True(t, validClassifyTemplate(defaultClassifyPrompt))
	assert.True(t, validClassifyTemplate("100%% sure: %s / %s"))
	assert.False(t, validClassifyTemplate("%s"))
	assert.False(t, validClassifyTemplate("%s %s %s"))
	assert.False(t, validClassifyTemplate("%[2]s %[1]s"))
}

func TestClassify_Errors(t *testing.T) {
	t.Run("no labels", func(t *testing.T) {
		_, err := New(&mockLLM{}).Classify(context.Background(), "q", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("no llm", func(t *testing.T) {
		_, err := New(nil).Classify(context.Background(), "q", []string{"a"})
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("backend failure", func(t *testing.T) {
		_, err := New(&mockLLM{err: errors.New("timeout")}).Classify(context.Background(), "q", []string{"a"})
		assert.Error(t, err)
	})

	t.Run("unparseable reply", func(t *testing.T) {
		_, err := New(&mockLLM{reply: "I am not sure"}).Classify(context.Background(), "q", []string{"a"})
		assert.Error(t, err)
	})
}

func TestParseVerdict(t *testing.T) {
	labels := []string{"kitchen", "garden"}

	tests := []struct {
		name      string
		reply     string
		wantLabel string
		wantConf  float64
		wantErr   bool
	}{
		{name: "plain json", reply: `{"label":"kitchen","confidence":0.5}`, wantLabel: "kitchen", wantConf: 0.5},
		{name: "fenced json", reply: "```json\n{\"label\":\"garden\",\"confidence\":0.7}\n```", wantLabel: "garden", wantConf: 0.7},
		{name: "prose around json", reply: `Sure! {"label":"kitchen","confidence":0.9} Hope that helps.`, wantLabel: "kitchen", wantConf: 0.9},
		{name: "percentage", reply: `{"label":"kitchen","confidence":85}`, wantLabel: "kitchen", wantConf: 0.85},
		{name: "negative clamps to zero", reply: `{"label":"kitchen","confidence":-1}`, wantLabel: "kitchen", wantConf: 0},
		{name: "huge clamps to one", reply: `{"label":"kitchen","confidence":1000}`, wantLabel: "kitchen", wantConf: 1},
		{name: "missing confidence", reply: `{"label":"garden"}`, wantLabel: "garden", wantConf: 1},
		{name: "bare label", reply: `"Kitchen".`, wantLabel: "kitchen", wantConf: 1},
		{name: "label kept as written", reply: `{"label":"toys","confidence":0.9}`, wantLabel: "toys", wantConf: 0.9},
		{name: "empty label", reply: `{"label":"","confidence":0.9}`, wantErr: true},
		{name: "broken json", reply: `{"label":`, wantErr: true},
		{name: "no json", reply: `no idea`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, conf, err := parseVerdict(tt.reply, labels)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, label)
			assert.InDelta(t, tt.wantConf, conf, 1e-9)
		})
	}
}
