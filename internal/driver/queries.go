package driver

// Every write below is a MERGE upsert keyed on the node's stable identity
// (Concept.name, Question.text), so repeating a statement leaves the graph
// unchanged. Relationship families are stored as separate self-contained
// statements: an empty UNWIND list is a no-op for that family only.
const (
	GetExistingConceptsQuery = `
		MATCH (c:Concept)
		OPTIONAL MATCH (c)-[:ALTERNATIVE_FORM]->(a:AlternativeForm)
		RETURN c.name AS name, collect(a.name) AS alternatives
	`

	MergeConceptQuery = `
		MERGE (c:Concept {name: $name})
		RETURN c.name AS name
	`

	MergeAlternativeFormQuery = `
		MATCH (c:Concept {name: $canonical_name})
		MERGE (a:AlternativeForm {name: $alternative_name})
		MERGE (c)-[:ALTERNATIVE_FORM]->(a)
		RETURN c.name AS name
	`

	MergeQuestionQuery = `
		MERGE (q:Question {text: $text})
		SET q.difficulty_level = $difficulty_level,
			q.domain = $domain,
			q.analyzed_at = $analyzed_at
		RETURN q.text AS text
	`

	LinkTestedConceptsQuery = `
		MATCH (q:Question {text: $text})
		UNWIND $concepts AS concept
		MERGE (c:Concept {name: concept})
		MERGE (q)-[r:TESTS_CONCEPT]->(c)
		SET r.strength = 1.0
	`

	LinkPrerequisitesQuery = `
		MATCH (q:Question {text: $text})
		UNWIND $prerequisites AS prereq
		MERGE (p:Concept {name: prereq.name})
		MERGE (q)-[r:REQUIRES_PREREQUISITE]->(p)
		SET r.order = prereq.index
	`

	LinkTechniquesQuery = `
		MATCH (q:Question {text: $text})
		UNWIND $techniques AS technique
		MERGE (t:Concept {name: technique})
		MERGE (q)-[:SOLVED_BY_TECHNIQUE]->(t)
	`

	LinkExtensionsQuery = `
		MATCH (q:Question {text: $text})
		UNWIND $extensions AS extension
		MERGE (e:Extension {name: extension})
		MERGE (q)-[:EXTENDS_TO]->(e)
	`

	MergeSolutionStepsQuery = `
		MATCH (q:Question {text: $text})
		UNWIND $steps AS step
		MERGE (q)-[:HAS_STEP]->(s:SolutionStep {step_number: step.step})
		SET s.description = step.description
		FOREACH (concept_used IN step.concepts_used |
			MERGE (c:Concept {name: concept_used})
			MERGE (s)-[:USES_CONCEPT]->(c))
	`

	GetAllConceptsQuery = `
		MATCH (c:Concept)
		OPTIONAL MATCH (q:Question)-[:TESTS_CONCEPT]->(c)
		RETURN c.name AS name, count(q) AS question_count
		ORDER BY question_count DESC
	`

	GetAllQuestionsQuery = `
		MATCH (q:Question)
		RETURN q.text AS text, q.difficulty_level AS difficulty_level, q.domain AS domain
	`

	GetRelatedConceptsQuery = `
		MATCH (c1:Concept {name: $name})<-[:TESTS_CONCEPT]-(q:Question)-[:TESTS_CONCEPT]->(c2:Concept)
		WHERE c1 <> c2
		RETURN c2.name AS name, count(*) AS strength
		ORDER BY strength DESC
	`

	GetConceptPrerequisitesQuery = `
		MATCH (c:Concept {name: $name})<-[:TESTS_CONCEPT]-(q:Question)-[:REQUIRES_PREREQUISITE]->(p:Concept)
		WHERE p <> c
		RETURN p.name AS name, count(*) AS count
		ORDER BY count DESC
	`

	GetConceptAlternativesQuery = `
		MATCH (c:Concept {name: $name})-[:ALTERNATIVE_FORM]->(a:AlternativeForm)
		RETURN collect(a.name) AS alternatives
	`

	GetDomainConceptsQuery = `
		MATCH (q:Question {domain: $domain})-[:TESTS_CONCEPT]->(c:Concept)
		RETURN c.name AS name, count(q) AS usage_count
		ORDER BY usage_count DESC
	`

	GetConceptDifficultyQuery = `
		MATCH (c:Concept {name: $name})<-[:TESTS_CONCEPT]-(q:Question)
		RETURN avg(q.difficulty_level) AS avg_difficulty
	`
)
