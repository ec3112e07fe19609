package extraction

import (
	"context"
	"fmt"

	"github.com/agenthands/mathgraph/internal/core/common"
	"github.com/agenthands/mathgraph/internal/core/model"
	"github.com/agenthands/mathgraph/internal/llm"
)

// DefaultPrompt is used when no analysis prompt is configured. The single
// %s placeholder receives the question text.
const DefaultPrompt = `Analyze the following math question and provide a detailed JSON response with:
- concepts: Main mathematical concepts being tested
- prerequisites: Knowledge required to solve this
- techniques: Problem-solving techniques that could be used
- extensions: More advanced concepts this leads to
- difficulty_level: A score from 0-1 indicating question difficulty
- solution_steps: Array of step-by-step solution guidance
- domain: Primary mathematical domain (e.g., Algebra, Geometry, Calculus)

Math Question: %s

Provide the response in this exact JSON format:
{
    "concepts": ["concept1", "concept2"],
    "prerequisites": ["prereq1", "prereq2"],
    "techniques": ["technique1", "technique2"],
    "extensions": ["extension1", "extension2"],
    "difficulty_level": 0.7,
    "solution_steps": [
        {"step": 1, "description": "First, ...", "concepts_used": ["concept1"]},
        {"step": 2, "description": "Then, ...", "concepts_used": ["concept2"]}
    ],
    "domain": "Algebra"
}`

type Extractor struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewExtractor(llmClient llm.LLMClient, prompt string) *Extractor {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &Extractor{
		LLM:    llmClient,
		Prompt: prompt,
	}
}

// Extract asks the LLM for a structured draft analysis of the question.
// A response that does not parse as the expected JSON shape is a hard failure.
func (e *Extractor) Extract(ctx context.Context, questionText string) (*model.RawAnalysis, error) {
	prompt := fmt.Sprintf(e.Prompt, questionText)

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate analysis: %w", err)
	}

	result, err := common.ParseJSON[model.RawAnalysis](response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}

	if result.DifficultyLevel < 0 {
		result.DifficultyLevel = 0
	}
	if result.DifficultyLevel > 1 {
		result.DifficultyLevel = 1
	}

	return &result, nil
}
