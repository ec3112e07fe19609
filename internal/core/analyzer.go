package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/mathgraph/internal/config"
	"github.com/agenthands/mathgraph/internal/core/extraction"
	"github.com/agenthands/mathgraph/internal/core/model"
	"github.com/agenthands/mathgraph/internal/core/normalize"
	"github.com/agenthands/mathgraph/internal/driver"
	"github.com/agenthands/mathgraph/internal/llm"
	"github.com/agenthands/mathgraph/internal/logger"
)

// ErrEmptyQuestion is returned before any model or graph call is made.
var ErrEmptyQuestion = errors.New("question text is empty")

// Analyzer runs the full pipeline: extract a structured draft analysis from
// the LLM, normalize every concept-bearing field against the knowledge
// graph, and persist the enriched result as idempotent merges. Concurrent
// Analyze calls are safe; merge semantics stand in for locking.
type Analyzer struct {
	Driver     driver.GraphDriver
	Extractor  *extraction.Extractor
	Normalizer *normalize.Normalizer
	Log        *logger.Logger

	Now     func() time.Time
	NewUUID func() string
}

func NewAnalyzer(d driver.GraphDriver, llmClient llm.LLMClient, cfg *config.Config, log *logger.Logger) *Analyzer {
	normalizer := normalize.NewNormalizer(d, llmClient, cfg.Prompts.Matching, log)
	normalizer.MinConfidence = cfg.Matching.MinConfidence
	if cfg.Matching.CacheSize > 0 {
		normalizer.SetCacheSize(cfg.Matching.CacheSize)
	}

	return &Analyzer{
		Driver:     d,
		Extractor:  extraction.NewExtractor(llmClient, cfg.Prompts.Analysis),
		Normalizer: normalizer,
		Log:        log,
		Now:        time.Now,
		NewUUID:    uuid.NewString,
	}
}

func (a *Analyzer) BuildIndices(ctx context.Context) error {
	return a.Driver.BuildIndices(ctx)
}

// Analyze runs the pipeline for one question. Any failure aborts the whole
// call; retrying is safe because every write is a merge keyed on stable
// identity, so no duplicates are created.
func (a *Analyzer) Analyze(ctx context.Context, questionText string) (*model.AnalysisResult, error) {
	if strings.TrimSpace(questionText) == "" {
		return nil, ErrEmptyQuestion
	}

	log := a.Log.With("analysis_id", a.NewUUID())
	log.Info("starting question analysis", "question", questionText)

	raw, err := a.Extractor.Extract(ctx, questionText)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	timestamp := a.Now()

	// Each field is its own namespace at extraction time even though
	// prerequisites and techniques collapse into Concept nodes in storage.
	concepts, err := a.Normalizer.Normalize(ctx, raw.Concepts)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	prereqs, err := a.Normalizer.Normalize(ctx, raw.Prerequisites)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	techniques, err := a.Normalizer.Normalize(ctx, raw.Techniques)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	// Persist every concept and alternative form before relationship
	// creation so all referenced nodes exist.
	for _, matches := range []map[string]model.ConceptMatch{concepts, prereqs, techniques} {
		for _, match := range matches {
			if err := a.Normalizer.StoreNewConcept(ctx, match); err != nil {
				return nil, fmt.Errorf("analysis failed: %w", err)
			}
		}
	}

	result := &model.AnalysisResult{
		Concepts:        project(raw.Concepts, concepts),
		Prerequisites:   project(raw.Prerequisites, prereqs),
		Techniques:      project(raw.Techniques, techniques),
		Extensions:      raw.Extensions,
		DifficultyLevel: raw.DifficultyLevel,
		SolutionSteps:   raw.SolutionSteps,
		Domain:          raw.Domain,
		Timestamp:       timestamp,
	}

	if err := a.storeAnalysis(ctx, questionText, result); err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	log.Info("question analysis complete",
		"concepts", len(result.Concepts),
		"prerequisites", len(result.Prerequisites),
		"domain", result.Domain)

	return result, nil
}

// project maps each raw field entry to its canonical concept name in the
// original extraction order; a still-unresolved novel concept keeps its own
// surface form.
func project(raw []string, matches map[string]model.ConceptMatch) []string {
	names := make([]string, 0, len(raw))
	for _, input := range raw {
		if match, ok := matches[input]; ok {
			names = append(names, match.CanonicalName())
		} else {
			names = append(names, input)
		}
	}
	return names
}

// storeAnalysis persists the enriched analysis. One self-contained merge
// statement per relationship family; empty fields are skipped.
func (a *Analyzer) storeAnalysis(ctx context.Context, questionText string, analysis *model.AnalysisResult) error {
	_, err := a.Driver.ExecuteQuery(ctx, driver.MergeQuestionQuery, map[string]interface{}{
		"text":             questionText,
		"difficulty_level": analysis.DifficultyLevel,
		"domain":           analysis.Domain,
		"analyzed_at":      analysis.Timestamp.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to store question: %w", err)
	}

	if len(analysis.Concepts) > 0 {
		_, err = a.Driver.ExecuteQuery(ctx, driver.LinkTestedConceptsQuery, map[string]interface{}{
			"text":     questionText,
			"concepts": toInterfaceSlice(analysis.Concepts),
		})
		if err != nil {
			return fmt.Errorf("failed to link concepts: %w", err)
		}
	}

	if len(analysis.Prerequisites) > 0 {
		// Order reflects the position in the original prerequisite list.
		prereqs := make([]interface{}, 0, len(analysis.Prerequisites))
		for i, name := range analysis.Prerequisites {
			prereqs = append(prereqs, map[string]interface{}{"name": name, "index": i})
		}
		_, err = a.Driver.ExecuteQuery(ctx, driver.LinkPrerequisitesQuery, map[string]interface{}{
			"text":          questionText,
			"prerequisites": prereqs,
		})
		if err != nil {
			return fmt.Errorf("failed to link prerequisites: %w", err)
		}
	}

	if len(analysis.Techniques) > 0 {
		_, err = a.Driver.ExecuteQuery(ctx, driver.LinkTechniquesQuery, map[string]interface{}{
			"text":       questionText,
			"techniques": toInterfaceSlice(analysis.Techniques),
		})
		if err != nil {
			return fmt.Errorf("failed to link techniques: %w", err)
		}
	}

	if len(analysis.Extensions) > 0 {
		_, err = a.Driver.ExecuteQuery(ctx, driver.LinkExtensionsQuery, map[string]interface{}{
			"text":       questionText,
			"extensions": toInterfaceSlice(analysis.Extensions),
		})
		if err != nil {
			return fmt.Errorf("failed to link extensions: %w", err)
		}
	}

	if len(analysis.SolutionSteps) > 0 {
		steps := make([]interface{}, 0, len(analysis.SolutionSteps))
		for _, step := range analysis.SolutionSteps {
			steps = append(steps, map[string]interface{}{
				"step":          step.Step,
				"description":   step.Description,
				"concepts_used": toInterfaceSlice(step.ConceptsUsed),
			})
		}
		_, err = a.Driver.ExecuteQuery(ctx, driver.MergeSolutionStepsQuery, map[string]interface{}{
			"text":  questionText,
			"steps": steps,
		})
		if err != nil {
			return fmt.Errorf("failed to store solution steps: %w", err)
		}
	}

	return nil
}

func toInterfaceSlice(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
