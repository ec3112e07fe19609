package normalize

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/agenthands/mathgraph/internal/core/common"
	"github.com/agenthands/mathgraph/internal/core/model"
	"github.com/agenthands/mathgraph/internal/driver"
	"github.com/agenthands/mathgraph/internal/llm"
	"github.com/agenthands/mathgraph/internal/logger"
)

// DefaultPrompt is used when no matching prompt is configured. The first %s
// receives the candidate concept, the second the list of existing canonical
// names.
const DefaultPrompt = `Given a new mathematical concept and a list of existing concepts,
determine if the new concept is equivalent to or a variation of any existing concept.
If it is, return the existing concept name and confidence score (0-1).
If it's a genuinely new concept, indicate that.

New concept: %s

Existing concepts:
%s

Return in JSON format:
{
    "is_match": boolean,
    "matched_concept": string or null,
    "confidence": float,
    "explanation": string
}`

const defaultCacheSize = 4096

// Normalizer decides whether newly extracted concept names denote existing
// concepts in the graph or genuinely new ones. Decisions are cached for the
// lifetime of the Normalizer, keyed on the case-folded input; the cache is
// never invalidated, so a decision may outlive later graph changes. That
// staleness is accepted to avoid repeated model calls on repeated phrasing.
type Normalizer struct {
	Driver driver.GraphDriver
	LLM    llm.LLMClient
	Prompt string
	Log    *logger.Logger

	// MinConfidence downgrades validated matches below the threshold to
	// new concepts. 0 keeps every validated match.
	MinConfidence float64

	mu        sync.RWMutex
	cache     map[string]model.ConceptMatch
	cacheSize int
}

func NewNormalizer(d driver.GraphDriver, llmClient llm.LLMClient, prompt string, log *logger.Logger) *Normalizer {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &Normalizer{
		Driver:    d,
		LLM:       llmClient,
		Prompt:    prompt,
		Log:       log,
		cache:     make(map[string]model.ConceptMatch),
		cacheSize: defaultCacheSize,
	}
}

// SetCacheSize bounds the decision cache. Once full, new decisions are still
// returned but no longer retained.
func (n *Normalizer) SetCacheSize(size int) {
	if size <= 0 {
		return
	}
	n.mu.Lock()
	n.cacheSize = size
	n.mu.Unlock()
}

// Normalize resolves each raw concept string to a ConceptMatch. It performs
// exactly one graph read for the existing-concepts snapshot regardless of
// input size, plus at most one model call per uncached concept.
func (n *Normalizer) Normalize(ctx context.Context, rawConcepts []string) (map[string]model.ConceptMatch, error) {
	existing, err := n.existingConcepts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing concepts: %w", err)
	}

	normalized := make(map[string]model.ConceptMatch, len(rawConcepts))
	for _, concept := range rawConcepts {
		key := strings.ToLower(concept)

		if match, ok := n.cached(key); ok {
			normalized[concept] = match
			continue
		}

		match, err := n.matchConcept(ctx, concept, existing)
		if err != nil {
			return nil, err
		}

		n.store(key, match)
		normalized[concept] = match
	}

	return normalized, nil
}

func (n *Normalizer) cached(key string) (model.ConceptMatch, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	match, ok := n.cache[key]
	return match, ok
}

func (n *Normalizer) store(key string, match model.ConceptMatch) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.cache) >= n.cacheSize {
		if _, ok := n.cache[key]; !ok {
			return
		}
	}
	n.cache[key] = match
}

// existingConcepts loads a snapshot of canonical name -> known surface forms
// (the canonical name itself plus all linked alternative names).
func (n *Normalizer) existingConcepts(ctx context.Context) (map[string][]string, error) {
	result, err := n.Driver.ExecuteQuery(ctx, driver.GetExistingConceptsQuery, nil)
	if err != nil {
		return nil, err
	}

	concepts := make(map[string][]string, len(result.Records))
	for _, record := range result.Records {
		rawName, _ := record.Get("name")
		name, ok := rawName.(string)
		if !ok {
			continue
		}

		forms := []string{name}
		if rawAlts, found := record.Get("alternatives"); found {
			if alts, ok := rawAlts.([]interface{}); ok {
				for _, a := range alts {
					if s, ok := a.(string); ok && s != "" {
						forms = append(forms, s)
					}
				}
			}
		}
		concepts[name] = forms
	}

	return concepts, nil
}

// matchConcept consults the model for a matching decision and validates the
// claimed match against the known surface forms. A claim that does not
// validate is treated as a non-match rather than an error: over-creating
// concepts is preferred to mis-linking them.
func (n *Normalizer) matchConcept(ctx context.Context, concept string, existing map[string][]string) (model.ConceptMatch, error) {
	if len(existing) == 0 {
		// Nothing to match against; new by definition, no model call.
		return newConcept(concept), nil
	}

	var names []string
	for name := range existing {
		names = append(names, name)
	}
	conceptsList := "- " + strings.Join(names, "\n- ")

	prompt := fmt.Sprintf(n.Prompt, concept, conceptsList)

	response, err := n.LLM.Generate(ctx, prompt)
	if err != nil {
		return model.ConceptMatch{}, fmt.Errorf("failed to generate matching decision: %w", err)
	}

	decision, err := common.ParseJSON[model.MatchDecision](response)
	if err != nil {
		return model.ConceptMatch{}, fmt.Errorf("failed to parse matching decision: %w", err)
	}

	if decision.IsMatch && decision.MatchedConcept != "" {
		// Bind to the canonical name, never the surface form the model echoed.
		for canonical, forms := range existing {
			for _, form := range forms {
				if decision.MatchedConcept != form {
					continue
				}
				if n.MinConfidence > 0 && decision.Confidence < n.MinConfidence {
					n.Log.Debug("match below confidence threshold",
						"concept", concept,
						"matched", canonical,
						"confidence", decision.Confidence)
					return newConcept(concept), nil
				}
				return model.ConceptMatch{
					InputConcept:   concept,
					MatchedConcept: canonical,
					Confidence:     decision.Confidence,
					IsNew:          false,
				}, nil
			}
		}
		n.Log.Debug("model claimed unknown concept, treating as new",
			"concept", concept,
			"claimed", decision.MatchedConcept)
	}

	return newConcept(concept), nil
}

func newConcept(concept string) model.ConceptMatch {
	return model.ConceptMatch{
		InputConcept: concept,
		Confidence:   1.0,
		IsNew:        true,
	}
}

// StoreNewConcept persists the consequence of a match: a new Concept node,
// or an AlternativeForm linked under the matched canonical concept. Both
// writes are merges, so repeated stores of the same match are no-ops.
func (n *Normalizer) StoreNewConcept(ctx context.Context, match model.ConceptMatch) error {
	var query string
	var params map[string]interface{}

	if match.IsNew {
		query = driver.MergeConceptQuery
		params = map[string]interface{}{"name": match.InputConcept}
	} else {
		query = driver.MergeAlternativeFormQuery
		params = map[string]interface{}{
			"canonical_name":   match.MatchedConcept,
			"alternative_name": match.InputConcept,
		}
	}

	if _, err := n.Driver.ExecuteQuery(ctx, query, params); err != nil {
		return fmt.Errorf("failed to store concept '%s': %w", match.InputConcept, err)
	}
	return nil
}
