package community

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

type call struct {
	Query  string
	Params map[string]interface{}
}

// MockDriver answers each query from a canned result and records every
// call for assertion.
type MockDriver struct {
	Results map[string]neo4j.EagerResult
	Errs    map[string]error
	Calls   []call
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.Calls = append(m.Calls, call{Query: query, Params: params})
	if err := m.Errs[query]; err != nil {
		return neo4j.EagerResult{}, err
	}
	return m.Results[query], nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func record(keys []string, values ...interface{}) *db.Record {
	return &db.Record{Keys: keys, Values: values}
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}
