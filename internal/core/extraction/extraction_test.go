package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	mockJSON := `{
		"concepts": ["linear equations"],
		"prerequisites": ["arithmetic"],
		"techniques": ["isolation"],
		"extensions": ["systems of equations"],
		"difficulty_level": 0.3,
		"solution_steps": [
			{"step": 1, "description": "Subtract 5 from both sides", "concepts_used": ["arithmetic"]},
			{"step": 2, "description": "Divide both sides by 2", "concepts_used": ["linear equations"]}
		],
		"domain": "Algebra"
	}`

	mockLLM := &MockLLMClient{Response: mockJSON}
	extractor := NewExtractor(mockLLM, "")

	result, err := extractor.Extract(context.Background(), "Solve 2x+5=13")

	assert.NoError(t, err)
	assert.Equal(t, []string{"linear equations"}, result.Concepts)
	assert.Equal(t, []string{"arithmetic"}, result.Prerequisites)
	assert.Equal(t, []string{"isolation"}, result.Techniques)
	assert.Equal(t, []string{"systems of equations"}, result.Extensions)
	assert.Equal(t, 0.3, result.DifficultyLevel)
	assert.Equal(t, "Algebra", result.Domain)
	assert.Len(t, result.SolutionSteps, 2)
	assert.Equal(t, 1, result.SolutionSteps[0].Step)
	assert.Equal(t, []string{"arithmetic"}, result.SolutionSteps[0].ConceptsUsed)
}

func TestExtract_ClampsDifficulty(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"concepts": [], "difficulty_level": 1.7, "domain": "Algebra"}`}
	extractor := NewExtractor(mockLLM, "")

	result, err := extractor.Extract(context.Background(), "question")

	assert.NoError(t, err)
	assert.Equal(t, 1.0, result.DifficultyLevel)
}

func TestExtract_MalformedResponse(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "this is not json"}
	extractor := NewExtractor(mockLLM, "")

	_, err := extractor.Extract(context.Background(), "question")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse analysis")
}
