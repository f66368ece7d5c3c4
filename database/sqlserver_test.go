package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/KazanKK/dbss/internal/fault"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockManager(t *testing.T) (*SQLServerManager, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	l, _ := zap.NewDevelopment()
	return &SQLServerManager{DB: sqlDB, Logger: l}, mock
}

func TestExecute(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectExec("DROP DATABASE CXSCORE_dbss;").WillReturnResult(sqlmock.NewResult(0, 0))

	err := m.Execute(context.Background(), "DROP DATABASE CXSCORE_dbss;", fault.DropFailed)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteDriverFault(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectExec("DROP DATABASE CXSCORE_dbss;").WillReturnError(mssql.Error{
		Number:  3702,
		Message: "Cannot drop database \"CXSCORE_dbss\" because it is currently in use. Check sessions.",
	})

	err := m.Execute(context.Background(), "DROP DATABASE CXSCORE_dbss;", fault.DropFailed)
	require.Error(t, err)
	assert.Equal(t, 88, fault.ExitCode(err))
	assert.True(t, fault.IsKind(err, fault.Database))
	assert.Equal(t, "Cannot drop database \"CXSCORE_dbss\" because it is currently in use", err.Error())

	var sqlErr mssql.Error
	assert.True(t, errors.As(err, &sqlErr))
	assert.Equal(t, int32(3702), sqlErr.Number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryMaterializesRows(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectQuery(DatabasesQuery).WillReturnRows(
		sqlmock.NewRows([]string{"name", "state_desc"}).
			AddRow("master", "ONLINE").
			AddRow([]byte("CXSCORE"), "RESTORING"),
	)

	rows, err := m.Query(context.Background(), DatabasesQuery, fault.DatabaseSurveyFailed)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "master", rows[0]["name"])
	assert.Equal(t, "CXSCORE", rows[1]["name"])
	assert.Equal(t, "RESTORING", rows[1]["state_desc"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryFault(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectQuery(DatabasesQuery).WillReturnError(errors.New("mssql: Login failed for user 'app'. Reason: bad password"))

	_, err := m.Query(context.Background(), DatabasesQuery, fault.DatabaseSurveyFailed)
	require.Error(t, err)
	assert.Equal(t, 85, fault.ExitCode(err))
	assert.Equal(t, "Login failed for user 'app'", err.Error())
}

func TestSessionWithoutConnection(t *testing.T) {
	m := NewSQLServerManager(nil)
	err := m.Execute(context.Background(), "SELECT 1;", fault.SnapshotCreateFailed)
	assert.Equal(t, 86, fault.ExitCode(err))
	assert.NoError(t, m.Close())
}

func TestSessionKeepsFaultFromCallback(t *testing.T) {
	m, _ := newMockManager(t)
	inner := fault.Preconditionf(fault.SnapshotNotCreated, "nope")
	err := m.Session(context.Background(), fault.ConnectionKillFailed, func(Session) error {
		return inner
	})
	assert.Same(t, inner, err)
}

func TestDiagnostic(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"first sentence", errors.New("Database 'X' does not exist. Make sure the name is right."), "Database 'X' does not exist"},
		{"no period", errors.New("connection reset"), "connection reset"},
		{"driver prefix", errors.New("mssql: Login failed for user 'app'."), "Login failed for user 'app'"},
		{"db-lib fragment", errors.New("Server unreachable DB-Lib error message 20009, severity 9: unable to connect."), "Server unreachable"},
		{"db-lib at start kept", errors.New("DB-Lib error message 20009"), "DB-Lib error message 20009"},
		{"typed driver error", mssql.Error{Message: "RESTORE DATABASE is terminating abnormally. Done."}, "RESTORE DATABASE is terminating abnormally"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diagnostic(tt.err))
		})
	}
}
