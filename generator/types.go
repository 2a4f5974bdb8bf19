package generator

// StoryInput is the free-form narrative submitted for critique.
type StoryInput struct {
	Text string `json:"story_input"`
}

// QuestionList is the ordered set of critique questions produced for one story.
type QuestionList []string

// Strategy selects how questions are obtained from the model.
type Strategy string

const (
	// StrategyStructured asks the provider for schema-constrained JSON in one call.
	StrategyStructured Strategy = "structured"
	// StrategyReformat asks for free text, then a second call to reformat it as
	// JSON, and extracts quoted strings from the result.
	StrategyReformat Strategy = "reformat"
)

// critiqueResponse mirrors questionSchema.
type critiqueResponse struct {
	QuestionsAsked []string `json:"questions_asked"`
}
