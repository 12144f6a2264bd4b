// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-list-api/internal/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database closed at test cleanup.
// The pool is limited to one connection so every query sees the same memory
// database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	return db
}

// Mail is one message captured by FakeMailer.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// FakeMailer records sent mail and can be told to fail.
type FakeMailer struct {
	mu   sync.Mutex
	Sent []Mail
	Err  error
}

func (m *FakeMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, Mail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// Last returns the most recent message.
func (m *FakeMailer) Last() (Mail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Sent) == 0 {
		return Mail{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}
