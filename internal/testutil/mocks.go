package testutil

import (
	"context"
	"time"

	"vatkhata/internal/domain"
)

// QueryCall records one repository call's bound parameters, in bind order.
type QueryCall struct {
	BookID int
	Start  time.Time
	End    time.Time
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Rows  map[int][]domain.RawTransaction
	Err   error
	Calls []QueryCall
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{Rows: make(map[int][]domain.RawTransaction)}
}

// AddRows registers rows returned for a book ID.
func (m *MockTransactionRepository) AddRows(bookID int, rows ...domain.RawTransaction) {
	m.Rows[bookID] = append(m.Rows[bookID], rows...)
}

// ListForPeriod returns the registered rows for the book.
func (m *MockTransactionRepository) ListForPeriod(ctx context.Context, bookID int, start, end time.Time) ([]domain.RawTransaction, error) {
	m.Calls = append(m.Calls, QueryCall{BookID: bookID, Start: start, End: end})
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Rows[bookID], nil
}

// MockTemplateFetcher is a mock implementation of domain.TemplateFetcher
type MockTemplateFetcher struct {
	Templates map[string][]byte
	Err       error
	Fetched   []string
}

// NewMockTemplateFetcher creates a new MockTemplateFetcher
func NewMockTemplateFetcher() *MockTemplateFetcher {
	return &MockTemplateFetcher{Templates: make(map[string][]byte)}
}

// Get returns the registered template bytes for the book.
func (m *MockTemplateFetcher) Get(ctx context.Context, book domain.Book) ([]byte, error) {
	m.Fetched = append(m.Fetched, book.Name)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Templates[book.Name], nil
}
