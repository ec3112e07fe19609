package model

import "time"

type SolutionStep struct {
	Step         int      `json:"step"`
	Description  string   `json:"description"`
	ConceptsUsed []string `json:"concepts_used"`
}

// RawAnalysis is the structured draft produced by the extraction model,
// before concept normalization.
type RawAnalysis struct {
	Concepts        []string       `json:"concepts"`
	Prerequisites   []string       `json:"prerequisites"`
	Techniques      []string       `json:"techniques"`
	Extensions      []string       `json:"extensions"`
	DifficultyLevel float64        `json:"difficulty_level"`
	SolutionSteps   []SolutionStep `json:"solution_steps"`
	Domain          string         `json:"domain"`
}

// AnalysisResult is the final analysis with all concept-bearing fields
// projected onto canonical concept names.
type AnalysisResult struct {
	Concepts        []string       `json:"concepts"`
	Prerequisites   []string       `json:"prerequisites"`
	Techniques      []string       `json:"techniques"`
	Extensions      []string       `json:"extensions"`
	DifficultyLevel float64        `json:"difficulty_level"`
	SolutionSteps   []SolutionStep `json:"solution_steps"`
	Domain          string         `json:"domain"`
	Timestamp       time.Time      `json:"timestamp"`
}
