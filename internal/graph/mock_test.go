package graph

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// MockDriver resolves queries against canned results keyed by a substring of
// the Cypher text. A Handler can be set when the outcome must depend on
// params as well. Every executed query is logged for assertions.
type MockDriver struct {
	Results map[string]neo4j.EagerResult
	Handler func(query string, params map[string]interface{}) (neo4j.EagerResult, bool)
	Err     error
	Queries []string
	Params  []map[string]interface{}
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.Queries = append(m.Queries, query)
	m.Params = append(m.Params, params)
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	if m.Handler != nil {
		if result, ok := m.Handler(query, params); ok {
			return result, nil
		}
	}
	for key, result := range m.Results {
		if strings.Contains(query, key) {
			return result, nil
		}
	}
	return neo4j.EagerResult{}, nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func nameRecords(names ...string) neo4j.EagerResult {
	records := make([]*neo4j.Record, 0, len(names))
	for _, n := range names {
		records = append(records, &neo4j.Record{
			Keys:   []string{"name"},
			Values: []interface{}{n},
		})
	}
	return neo4j.EagerResult{Records: records}
}

func singleRecord(keys []string, values []interface{}) neo4j.EagerResult {
	return neo4j.EagerResult{Records: []*neo4j.Record{{Keys: keys, Values: values}}}
}
