package db

import (
	"context"
	"database/sql"

	"github.com/KazanKK/dbss/internal/fault"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SQLServerManager is the Gateway backed by database/sql and go-mssqldb.
type SQLServerManager struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewSQLServerManager(l *zap.Logger) *SQLServerManager {
	if l == nil {
		l = zap.NewNop()
	}
	return &SQLServerManager{Logger: l}
}

func (m *SQLServerManager) log() *zap.SugaredLogger {
	if m.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return m.Logger.Sugar()
}

// ConnectWithDSN prepares the handle. No connection is opened until the
// first call, and none is kept idle afterwards.
func (m *SQLServerManager) ConnectWithDSN(dsn string) error {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return err
	}
	db.SetMaxIdleConns(0)
	m.DB = db
	return nil
}

func (m *SQLServerManager) Close() error {
	if m.DB == nil {
		return nil
	}
	return m.DB.Close()
}

func (m *SQLServerManager) Execute(ctx context.Context, stmt string, code fault.Code) error {
	return m.Session(ctx, code, func(s Session) error {
		return s.Execute(ctx, stmt)
	})
}

func (m *SQLServerManager) Query(ctx context.Context, stmt string, code fault.Code) ([]Row, error) {
	var rows []Row
	err := m.Session(ctx, code, func(s Session) error {
		var err error
		rows, err = s.Query(ctx, stmt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (m *SQLServerManager) Session(ctx context.Context, code fault.Code, fn func(Session) error) error {
	if m.DB == nil {
		return fault.Wrap(code, "no database connection", errors.New("no database connection"))
	}

	conn, err := m.DB.Conn(ctx)
	if err != nil {
		return m.fault(code, err)
	}
	m.log().Debugw("Acquired connection", "code", code)
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			m.log().Debugw("Failed to release connection", "error", cerr)
			return
		}
		m.log().Debugw("Released connection", "code", code)
	}()

	if err := fn(&sqlSession{conn: conn, l: m.log()}); err != nil {
		return m.fault(code, err)
	}
	return nil
}

func (m *SQLServerManager) fault(code fault.Code, err error) error {
	var fe *fault.Error
	if errors.As(err, &fe) {
		return err
	}
	msg := Diagnostic(err)
	m.log().Debugw("Statement failed", "code", code, "diagnostic", msg, "error", err)
	return fault.Wrap(code, msg, err)
}

type sqlSession struct {
	conn *sql.Conn
	l    *zap.SugaredLogger
}

func (s *sqlSession) Execute(ctx context.Context, stmt string) error {
	s.l.Debugw("Executing statement", "sql", stmt)
	_, err := s.conn.ExecContext(ctx, stmt)
	return err
}

func (s *sqlSession) Query(ctx context.Context, stmt string) ([]Row, error) {
	s.l.Debugw("Running query", "sql", stmt)
	rows, err := s.conn.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "reading columns")
	}

	var result []Row
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "scanning row")
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
