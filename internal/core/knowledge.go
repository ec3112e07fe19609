package core

import (
	"context"

	"github.com/agenthands/mathgraph/internal/core/model"
	"github.com/agenthands/mathgraph/internal/driver"
)

// Read queries backing the knowledge-graph visualization endpoints. Readers
// may observe a graph mid-update by a concurrent Analyze call; eventual
// consistency within a node's relationship set is accepted.

func (a *Analyzer) AllConcepts(ctx context.Context) ([]model.ConceptCount, error) {
	result, err := a.Driver.ExecuteQuery(ctx, driver.GetAllConceptsQuery, nil)
	if err != nil {
		return nil, err
	}

	concepts := make([]model.ConceptCount, 0, len(result.Records))
	for _, rec := range result.Records {
		concepts = append(concepts, model.ConceptCount{
			Name:          recordString(rec.AsMap(), "name"),
			QuestionCount: recordInt(rec.AsMap(), "question_count"),
		})
	}
	return concepts, nil
}

func (a *Analyzer) AllQuestions(ctx context.Context) ([]model.QuestionInfo, error) {
	result, err := a.Driver.ExecuteQuery(ctx, driver.GetAllQuestionsQuery, nil)
	if err != nil {
		return nil, err
	}

	questions := make([]model.QuestionInfo, 0, len(result.Records))
	for _, rec := range result.Records {
		m := rec.AsMap()
		questions = append(questions, model.QuestionInfo{
			Text:            recordString(m, "text"),
			DifficultyLevel: recordFloat(m, "difficulty_level"),
			Domain:          recordString(m, "domain"),
		})
	}
	return questions, nil
}

// RelatedConcepts returns concepts co-tested with the given one, strongest
// first.
func (a *Analyzer) RelatedConcepts(ctx context.Context, name string) ([]model.RelatedConcept, error) {
	result, err := a.Driver.ExecuteQuery(ctx, driver.GetRelatedConceptsQuery, map[string]interface{}{"name": name})
	if err != nil {
		return nil, err
	}

	related := make([]model.RelatedConcept, 0, len(result.Records))
	for _, rec := range result.Records {
		m := rec.AsMap()
		related = append(related, model.RelatedConcept{
			Name:     recordString(m, "name"),
			Strength: recordInt(m, "strength"),
		})
	}
	return related, nil
}

func (a *Analyzer) ConceptPrerequisites(ctx context.Context, name string) ([]model.PrerequisiteCount, error) {
	result, err := a.Driver.ExecuteQuery(ctx, driver.GetConceptPrerequisitesQuery, map[string]interface{}{"name": name})
	if err != nil {
		return nil, err
	}

	prereqs := make([]model.PrerequisiteCount, 0, len(result.Records))
	for _, rec := range result.Records {
		m := rec.AsMap()
		prereqs = append(prereqs, model.PrerequisiteCount{
			Name:  recordString(m, "name"),
			Count: recordInt(m, "count"),
		})
	}
	return prereqs, nil
}

func (a *Analyzer) ConceptAlternatives(ctx context.Context, name string) ([]string, error) {
	result, err := a.Driver.ExecuteQuery(ctx, driver.GetConceptAlternativesQuery, map[string]interface{}{"name": name})
	if err != nil {
		return nil, err
	}

	var alternatives []string
	for _, rec := range result.Records {
		if raw, found := rec.Get("alternatives"); found {
			if alts, ok := raw.([]interface{}); ok {
				for _, alt := range alts {
					if s, ok := alt.(string); ok && s != "" {
						alternatives = append(alternatives, s)
					}
				}
			}
		}
	}
	return alternatives, nil
}

func (a *Analyzer) DomainConcepts(ctx context.Context, domain string) ([]model.DomainConcept, error) {
	result, err := a.Driver.ExecuteQuery(ctx, driver.GetDomainConceptsQuery, map[string]interface{}{"domain": domain})
	if err != nil {
		return nil, err
	}

	concepts := make([]model.DomainConcept, 0, len(result.Records))
	for _, rec := range result.Records {
		m := rec.AsMap()
		concepts = append(concepts, model.DomainConcept{
			Name:       recordString(m, "name"),
			UsageCount: recordInt(m, "usage_count"),
		})
	}
	return concepts, nil
}

// ConceptDifficulty averages the difficulty of questions testing the concept.
// Returns 0 for a concept no question tests yet.
func (a *Analyzer) ConceptDifficulty(ctx context.Context, name string) (float64, error) {
	result, err := a.Driver.ExecuteQuery(ctx, driver.GetConceptDifficultyQuery, map[string]interface{}{"name": name})
	if err != nil {
		return 0, err
	}

	if len(result.Records) == 0 {
		return 0, nil
	}
	return recordFloat(result.Records[0].AsMap(), "avg_difficulty"), nil
}

func recordString(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func recordInt(m map[string]interface{}, key string) int64 {
	if i, ok := m[key].(int64); ok {
		return i
	}
	return 0
}

func recordFloat(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}
