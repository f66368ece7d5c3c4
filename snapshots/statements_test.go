package snapshot

import (
	"strings"
	"testing"

	db "github.com/KazanKK/dbss/database"
	"github.com/stretchr/testify/assert"
)

func TestSnapshotFilePath(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		seq, total int
		want       string
	}{
		{"single file", `D:\DATA\CXSCORE.mdf`, 1, 1, `D:\DATA\CXSCORE_dbss.ss`},
		{"numbered", `D:\DATA\CXSCORE_idx.ndf`, 2, 3, `D:\DATA\CXSCORE_idx_dbss_02.ss`},
		{"dotted directory", `D:\SQL.DATA\CX.mdf`, 1, 1, `D:\SQL.DATA\CX_dbss.ss`},
		{"no extension", `/var/opt/mssql/data/cx`, 1, 1, `/var/opt/mssql/data/cx_dbss.ss`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SnapshotFilePath(tt.path, "_dbss", "ss", tt.seq, tt.total))
		})
	}
}

func TestCreateStatementSingleFile(t *testing.T) {
	files := SnapshotFiles([]db.DataFileRecord{
		{LogicalName: "CXSCORE_Data", PhysicalPath: `D:\DATA\CXSCORE.mdf`},
	}, "_dbss", "ss")

	assert.Equal(t,
		"CREATE DATABASE CXSCORE_dbss ON\n"+
			"( NAME = CXSCORE_Data, FILENAME = 'D:\\DATA\\CXSCORE_dbss.ss' )\n"+
			"AS SNAPSHOT OF CXSCORE;",
		CreateStatement("CXSCORE_dbss", "CXSCORE", files))
}

func TestCreateStatementThreeFiles(t *testing.T) {
	files := SnapshotFiles([]db.DataFileRecord{
		{LogicalName: "PX_Data", PhysicalPath: `D:\DATA\PX.mdf`},
		{LogicalName: "PX_Data2", PhysicalPath: `D:\DATA\PX2.ndf`},
		{LogicalName: "PX_Idx", PhysicalPath: `E:\IDX\PX.ndf`},
	}, "_dbss", "ss")
	stmt := CreateStatement("PX_dbss", "PX", files)

	assert.Equal(t, 3, strings.Count(stmt, "( NAME = "))
	assert.Contains(t, stmt, `( NAME = PX_Data, FILENAME = 'D:\DATA\PX_dbss_01.ss' ),`)
	assert.Contains(t, stmt, `( NAME = PX_Data2, FILENAME = 'D:\DATA\PX2_dbss_02.ss' ),`)
	assert.Contains(t, stmt, `( NAME = PX_Idx, FILENAME = 'E:\IDX\PX_dbss_03.ss' )`+"\nAS SNAPSHOT OF PX;")
}

func TestRestoreAndDropStatements(t *testing.T) {
	assert.Equal(t,
		"USE master; RESTORE DATABASE CXSCORE FROM DATABASE_SNAPSHOT = 'CXSCORE_dbss';",
		RestoreStatement("CXSCORE", "CXSCORE_dbss"))

	snap, err := NewSnapshotDB("CXSCORE_dbss", "_dbss")
	assert.NoError(t, err)
	assert.Equal(t, "DROP DATABASE CXSCORE_dbss;", DropStatement(snap))
}

func TestExampleCreateStatement(t *testing.T) {
	stmt := ExampleCreateStatement("CXSCORE_dbss", "CXSCORE", "ss")
	assert.True(t, strings.HasPrefix(stmt, "CREATE DATABASE CXSCORE_dbss\n"))
	assert.Contains(t, stmt, `NAME = CXSCORE_Data, FILENAME = '`+exampleDataDir+`\CXSCORE_dbss.ss'`)
	assert.True(t, strings.HasSuffix(stmt, "AS SNAPSHOT OF CXSCORE;"))
}
