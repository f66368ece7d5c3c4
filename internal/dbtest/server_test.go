package dbtest

import (
	"context"
	"testing"

	"github.com/KazanKK/dbss/internal/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteMalformedStatement(t *testing.T) {
	s := NewServer().Add("CXSCORE_dbss", "ONLINE")

	for _, stmt := range []string{"DROP DATABASE ;", "CREATE DATABASE;"} {
		var err error
		require.NotPanics(t, func() {
			err = s.Execute(context.Background(), stmt, fault.DropFailed)
		}, stmt)
		assert.Equal(t, 88, fault.ExitCode(err), stmt)
		assert.True(t, fault.IsKind(err, fault.Database), stmt)
	}
	assert.True(t, s.Has("CXSCORE_dbss"))
}

func TestExecuteDropAndCreate(t *testing.T) {
	s := NewServer().Add("CXSCORE", "ONLINE")

	require.NoError(t, s.Execute(context.Background(), "CREATE DATABASE CXSCORE_dbss ON\n( NAME = X, FILENAME = 'x.ss' )\nAS SNAPSHOT OF CXSCORE;", fault.SnapshotCreateFailed))
	assert.True(t, s.Has("CXSCORE_dbss"))

	require.NoError(t, s.Execute(context.Background(), "DROP DATABASE CXSCORE_dbss;", fault.DropFailed))
	assert.False(t, s.Has("CXSCORE_dbss"))
	assert.Len(t, s.Executed, 2)
}
