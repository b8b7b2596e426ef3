package gemini

// quizItemSchema mirrors one question/answer pair in the model's JSON output.
type quizItemSchema struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// responseSchema defines the JSON structure the model is instructed to
// return for a note image.
type responseSchema struct {
	Title        string           `json:"title"`
	Subject      string           `json:"subject"`
	Summary      string           `json:"summary"`
	OriginalText string           `json:"originalText"`
	Cues         []string         `json:"cues"`
	Quiz         []quizItemSchema `json:"quiz"`
	Tags         []string         `json:"tags"`
}
