package normalize

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type MockDriver struct {
	// Snapshot returned for the existing-concepts read; other queries get
	// an empty result.
	SnapshotResult neo4j.EagerResult
	Err            error

	Queries []string
	Params  []map[string]interface{}
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.Queries = append(m.Queries, query)
	m.Params = append(m.Params, params)
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	return m.SnapshotResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func conceptSnapshot(rows ...[2]interface{}) neo4j.EagerResult {
	records := make([]*neo4j.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, &neo4j.Record{
			Keys:   []string{"name", "alternatives"},
			Values: []interface{}{row[0], row[1]},
		})
	}
	return neo4j.EagerResult{Records: records}
}

type MockLLM struct {
	Response  string
	Err       error
	CallCount int
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.CallCount++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
