package core

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type MockDriver struct {
	MockResult neo4j.EagerResult
	Err        error

	Queries []string
	Params  []map[string]interface{}
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.Queries = append(m.Queries, query)
	m.Params = append(m.Params, params)
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	return m.MockResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

// paramsFor returns the params of the first execution of the given query,
// or nil if it never ran.
func (m *MockDriver) paramsFor(query string) map[string]interface{} {
	for i, q := range m.Queries {
		if q == query {
			return m.Params[i]
		}
	}
	return nil
}

func (m *MockDriver) ran(query string) bool {
	for _, q := range m.Queries {
		if q == query {
			return true
		}
	}
	return false
}

type MockLLM struct {
	Response      string
	ResponseQueue []string
	CallCount     int
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.CallCount++
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}
