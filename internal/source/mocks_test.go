package source

import (
	"context"
	"errors"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// MockConn implements driver.Conn for testing
type MockConn struct {
	driver.Conn
	Rows       [][]any
	QueryErr   error
	Queries    []string
	QueryArgs  [][]any
	Execs      []string
	Batch      *MockBatch
	PrepareErr error
	PingErr    error
}

func (m *MockConn) Query(ctx context.Context, query string, args ...interface{}) (driver.Rows, error) {
	m.Queries = append(m.Queries, query)
	m.QueryArgs = append(m.QueryArgs, args)
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	return &MockRows{rows: m.Rows, index: -1}, nil
}

func (m *MockConn) Exec(ctx context.Context, query string, args ...interface{}) error {
	m.Execs = append(m.Execs, query)
	return nil
}

func (m *MockConn) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	if m.PrepareErr != nil {
		return nil, m.PrepareErr
	}
	if m.Batch == nil {
		m.Batch = &MockBatch{}
	}
	return m.Batch, nil
}

// MockRows serves preset rows in order
type MockRows struct {
	driver.Rows
	rows  [][]any
	index int
}

func (m *MockRows) Next() bool {
	m.index++
	return m.index < len(m.rows)
}

func (m *MockRows) Scan(dest ...interface{}) error {
	row := m.rows[m.index]
	if len(dest) != len(row) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		switch v := d.(type) {
		case *string:
			*v = row[i].(string)
		case *uint16:
			*v = row[i].(uint16)
		case *time.Time:
			*v = row[i].(time.Time)
		default:
			return errors.New("unsupported scan type")
		}
	}
	return nil
}

func (m *MockRows) Close() error { return nil }
func (m *MockRows) Err() error   { return nil }

// MockBatch records appended rows
type MockBatch struct {
	driver.Batch
	Appended  [][]any
	AppendErr error
	SendErr   error
	Sent      bool
	Aborted   bool
}

func (m *MockBatch) Append(v ...interface{}) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Appended = append(m.Appended, v)
	return nil
}

func (m *MockBatch) Send() error {
	m.Sent = true
	return m.SendErr
}

func (m *MockBatch) Abort() error {
	m.Aborted = true
	return nil
}
