package generator

import (
	"fmt"
	"strings"
)

const critiqueSystem = "You are an expert in story critique and creative writing."

const critiqueTemplate = `Analyze the following story and identify potential weaknesses, inconsistencies, and areas for improvement.
Your task is to generate insightful, specific, and constructive QUESTIONS that a writer or editor should ask
to improve the story.

The story is:

"""%s"""

Respond with a list of questions only, no explanations, no summaries, no introductions.

Format each question like this:
1. Why does the character choose to...?
2. Is there enough context for...?
3. Could the plot benefit from...?

Keep the questions concise and thought-provoking.`

const reformatTemplate = `Reformat the following list of questions as JSON of the form {"questions_asked": ["question", ...]}.
Keep every question exactly as written, in the same order, and output nothing but the JSON.

%s`

// questionSchema is the declared output shape for structured calls.
var questionSchema = &Schema{
	Name:        "critique-questions",
	Description: "Critique questions about a story",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions_asked": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"questions_asked"},
		"additionalProperties": false,
	},
}

// BuildCritiquePrompt 生成提问提示词，故事原文不做任何处理。
func BuildCritiquePrompt(story string) Request {
	return Request{
		System: critiqueSystem,
		User:   fmt.Sprintf(critiqueTemplate, story),
	}
}

// BuildReformatPrompt asks the model to turn its own free-text answer into JSON.
func BuildReformatPrompt(raw string) Request {
	return Request{
		System: "Output valid JSON only.",
		User:   fmt.Sprintf(reformatTemplate, strings.TrimSpace(raw)),
	}
}
