package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/mathgraph/internal/config"
	"github.com/agenthands/mathgraph/internal/driver"
	"github.com/agenthands/mathgraph/internal/logger"
)

const extractionJSON = `{
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

func newTestAnalyzer(d *MockDriver, llm *MockLLM) *Analyzer {
	a := NewAnalyzer(d, llm, &config.Config{}, logger.NewNop())
	a.Now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	uuidCounter := 0
	a.NewUUID = func() string {
		uuidCounter++
		return fmt.Sprintf("analysis-%d", uuidCounter)
	}
	return a
}

func TestAnalyze_EndToEnd(t *testing.T) {
	// Empty graph: every normalization is vacuously new, so the only model
	// call is the extraction itself.
	mockDriver := &MockDriver{}
	mockLLM := &MockLLM{ResponseQueue: []string{extractionJSON}}
	a := newTestAnalyzer(mockDriver, mockLLM)

	result, err := a.Analyze(context.Background(), "Solve 2x+5=13")

	require.NoError(t, err)
	assert.Equal(t, 1, mockLLM.CallCount)
	assert.Equal(t, []string{"linear equations"}, result.Concepts)
	assert.Equal(t, []string{"arithmetic"}, result.Prerequisites)
	assert.Equal(t, []string{"isolation"}, result.Techniques)
	assert.Equal(t, []string{"systems of equations"}, result.Extensions)
	assert.Equal(t, 0.3, result.DifficultyLevel)
	assert.Equal(t, "Algebra", result.Domain)
	assert.False(t, result.Timestamp.IsZero())

	// Each novel name is merged as a Concept before relationships are built.
	var merged []string
	for i, q := range mockDriver.Queries {
		if q == driver.MergeConceptQuery {
			merged = append(merged, mockDriver.Params[i]["name"].(string))
		}
	}
	assert.ElementsMatch(t, []string{"linear equations", "arithmetic", "isolation"}, merged)

	qParams := mockDriver.paramsFor(driver.MergeQuestionQuery)
	require.NotNil(t, qParams)
	assert.Equal(t, "Solve 2x+5=13", qParams["text"])
	assert.Equal(t, 0.3, qParams["difficulty_level"])
	assert.Equal(t, "Algebra", qParams["domain"])

	cParams := mockDriver.paramsFor(driver.LinkTestedConceptsQuery)
	require.NotNil(t, cParams)
	assert.Equal(t, []interface{}{"linear equations"}, cParams["concepts"])

	sParams := mockDriver.paramsFor(driver.MergeSolutionStepsQuery)
	require.NotNil(t, sParams)
	steps := sParams["steps"].([]interface{})
	require.Len(t, steps, 2)
	assert.Equal(t, 1, steps[0].(map[string]interface{})["step"])
}

func TestAnalyze_PrerequisiteOrderPreserved(t *testing.T) {
	extraction := `{
		"concepts": [],
		"prerequisites": ["basics", "fractions", "ratios"],
		"techniques": [],
		"extensions": [],
		"difficulty_level": 0.5,
		"solution_steps": [],
		"domain": "Arithmetic"
	}`
	mockDriver := &MockDriver{}
	mockLLM := &MockLLM{ResponseQueue: []string{extraction}}
	a := newTestAnalyzer(mockDriver, mockLLM)

	_, err := a.Analyze(context.Background(), "What is 3/4 of 12?")

	require.NoError(t, err)
	pParams := mockDriver.paramsFor(driver.LinkPrerequisitesQuery)
	require.NotNil(t, pParams)

	prereqs := pParams["prerequisites"].([]interface{})
	require.Len(t, prereqs, 3)
	for i, name := range []string{"basics", "fractions", "ratios"} {
		entry := prereqs[i].(map[string]interface{})
		assert.Equal(t, name, entry["name"])
		assert.Equal(t, i, entry["index"])
	}
}

func TestAnalyze_EmptyFieldsAreNoOps(t *testing.T) {
	extraction := `{
		"concepts": ["counting"],
		"prerequisites": [],
		"techniques": [],
		"extensions": [],
		"difficulty_level": 0.1,
		"solution_steps": [],
		"domain": "Arithmetic"
	}`
	mockDriver := &MockDriver{}
	mockLLM := &MockLLM{ResponseQueue: []string{extraction}}
	a := newTestAnalyzer(mockDriver, mockLLM)

	result, err := a.Analyze(context.Background(), "How many apples?")

	require.NoError(t, err)
	assert.Equal(t, []string{"counting"}, result.Concepts)
	assert.True(t, mockDriver.ran(driver.MergeQuestionQuery))
	assert.True(t, mockDriver.ran(driver.LinkTestedConceptsQuery))
	assert.False(t, mockDriver.ran(driver.LinkPrerequisitesQuery))
	assert.False(t, mockDriver.ran(driver.LinkTechniquesQuery))
	assert.False(t, mockDriver.ran(driver.LinkExtensionsQuery))
	assert.False(t, mockDriver.ran(driver.MergeSolutionStepsQuery))
}

func TestAnalyze_EmptyQuestionRejectedBeforeIO(t *testing.T) {
	mockDriver := &MockDriver{}
	mockLLM := &MockLLM{}
	a := newTestAnalyzer(mockDriver, mockLLM)

	_, err := a.Analyze(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Equal(t, 0, mockLLM.CallCount)
	assert.Empty(t, mockDriver.Queries)
}

func TestAnalyze_ExtractionParseError(t *testing.T) {
	mockDriver := &MockDriver{}
	mockLLM := &MockLLM{Response: "not json at all"}
	a := newTestAnalyzer(mockDriver, mockLLM)

	_, err := a.Analyze(context.Background(), "Solve 2x+5=13")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis failed")
	// Nothing was written.
	assert.Empty(t, mockDriver.Queries)
}

func TestAnalyze_PersistenceError(t *testing.T) {
	mockDriver := &MockDriver{Err: errors.New("connection lost")}
	mockLLM := &MockLLM{ResponseQueue: []string{extractionJSON}}
	a := newTestAnalyzer(mockDriver, mockLLM)

	_, err := a.Analyze(context.Background(), "Solve 2x+5=13")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis failed")
}
