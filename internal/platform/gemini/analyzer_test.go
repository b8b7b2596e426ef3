package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeResponseFillsDefaults(t *testing.T) {
	t.Parallel()

	got := sanitizeResponse(&responseSchema{})

	assert.Equal(t, "Untitled Note", got.Title)
	assert.Equal(t, "General", got.Subject)
	assert.NotNil(t, got.Cues)
	assert.NotNil(t, got.Quiz)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Cues)
	assert.Empty(t, got.Quiz)
	assert.Empty(t, got.Tags)
}

func TestSanitizeResponseTrimsAndKeepsContent(t *testing.T) {
	t.Parallel()

	got := sanitizeResponse(&responseSchema{
		Title:        "  Photosynthesis  ",
		Subject:      "Biology",
		Summary:      " Light reactions and the Calvin cycle. ",
		OriginalText: "raw transcription",
		Cues:         []string{" chlorophyll ", "", "ATP"},
		Quiz: []quizItemSchema{
			{Question: "What pigment absorbs light?", Answer: "Chlorophyll"},
			{Question: "", Answer: "orphaned answer"},
			{Question: "orphaned question", Answer: ""},
		},
		Tags: []string{"plants", " ", "energy"},
	})

	assert.Equal(t, "Photosynthesis", got.Title)
	assert.Equal(t, "Biology", got.Subject)
	assert.Equal(t, "Light reactions and the Calvin cycle.", got.Summary)
	assert.Equal(t, "raw transcription", got.OriginalText)
	assert.Equal(t, []string{"chlorophyll", "ATP"}, got.Cues)
	assert.Len(t, got.Quiz, 1)
	assert.Equal(t, "Chlorophyll", got.Quiz[0].Answer)
	assert.Equal(t, []string{"plants", "energy"}, got.Tags)
}

func TestSanitizeResponseWhitespaceOnlyTitle(t *testing.T) {
	t.Parallel()

	got := sanitizeResponse(&responseSchema{Title: "   ", Subject: "\t"})

	assert.Equal(t, "Untitled Note", got.Title)
	assert.Equal(t, "General", got.Subject)
}
