package model

// Read-model rows returned by the knowledge-graph queries.

type ConceptCount struct {
	Name          string `json:"name"`
	QuestionCount int64  `json:"question_count"`
}

type QuestionInfo struct {
	Text            string  `json:"text"`
	DifficultyLevel float64 `json:"difficulty_level"`
	Domain          string  `json:"domain"`
}

type RelatedConcept struct {
	Name     string `json:"name"`
	Strength int64  `json:"strength"`
}

type PrerequisiteCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type DomainConcept struct {
	Name       string `json:"name"`
	UsageCount int64  `json:"usage_count"`
}
