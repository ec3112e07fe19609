package model

// ConceptMatch is the outcome of normalizing one raw extracted string
// against the known concepts. It is transient; only its consequences
// (Concept or AlternativeForm nodes) are persisted.
type ConceptMatch struct {
	InputConcept   string  `json:"input_concept"`
	MatchedConcept string  `json:"matched_concept,omitempty"`
	Confidence     float64 `json:"confidence"`
	IsNew          bool    `json:"is_new"`
}

// CanonicalName returns the name the input should be stored and reported
// under: the matched canonical concept, or the input itself when new.
func (m ConceptMatch) CanonicalName() string {
	if m.MatchedConcept != "" {
		return m.MatchedConcept
	}
	return m.InputConcept
}

// MatchDecision matches the JSON shape the matching model is asked for.
type MatchDecision struct {
	IsMatch        bool    `json:"is_match"`
	MatchedConcept string  `json:"matched_concept"`
	Confidence     float64 `json:"confidence"`
	Explanation    string  `json:"explanation"`
}
