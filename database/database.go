package db

import (
	"context"

	"github.com/KazanKK/dbss/internal/fault"
)

// Row is one result row keyed by column name.
type Row map[string]interface{}

// Gateway runs statements against the server. Every call acquires its own
// connection and releases it before returning; a failure is reported as a
// *fault.Error of kind Database carrying code.
type Gateway interface {
	Execute(ctx context.Context, stmt string, code fault.Code) error
	Query(ctx context.Context, stmt string, code fault.Code) ([]Row, error)
	// Session runs fn on a single connection, for statement sequences that
	// depend on session state such as @@SPID.
	Session(ctx context.Context, code fault.Code, fn func(Session) error) error
}

// Session is a connection pinned for the duration of Gateway.Session.
type Session interface {
	Execute(ctx context.Context, stmt string) error
	Query(ctx context.Context, stmt string) ([]Row, error)
}
