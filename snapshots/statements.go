package snapshot

import (
	"fmt"
	"strings"

	db "github.com/KazanKK/dbss/database"
)

// exampleDataDir is only used to render the dry-run CREATE statement.
const exampleDataDir = `D:\Program Files\Microsoft SQL Server\MSSQL10_50.MSSQLSERVER\MSSQL\DATA`

// SnapshotFile is one ( NAME = ..., FILENAME = ... ) clause.
type SnapshotFile struct {
	LogicalName string
	Path        string
}

// SnapshotFilePath derives the sparse file path for a source data file. The
// suffix goes on the file stem, followed by a two digit sequence number when
// the database has more than one data file, and the extension becomes tag.
func SnapshotFilePath(path, suffix, tag string, seq, total int) string {
	parts := strings.Split(path, ".")
	if len(parts) < 2 {
		parts = append(parts, "")
	}
	stem := len(parts) - 2
	parts[stem] += suffix
	if total > 1 {
		parts[stem] += fmt.Sprintf("_%02d", seq)
	}
	parts[len(parts)-1] = tag
	return strings.Join(parts, ".")
}

// SnapshotFiles maps every data file to its snapshot file clause.
func SnapshotFiles(files []db.DataFileRecord, suffix, tag string) []SnapshotFile {
	out := make([]SnapshotFile, 0, len(files))
	for i, f := range files {
		out = append(out, SnapshotFile{
			LogicalName: f.LogicalName,
			Path:        SnapshotFilePath(f.PhysicalPath, suffix, tag, i+1, len(files)),
		})
	}
	return out
}

func CreateStatement(snapshot, database string, files []SnapshotFile) string {
	clauses := make([]string, 0, len(files))
	for _, f := range files {
		clauses = append(clauses, fmt.Sprintf("( NAME = %s, FILENAME = '%s' )", f.LogicalName, f.Path))
	}
	return fmt.Sprintf("CREATE DATABASE %s ON\n%s\nAS SNAPSHOT OF %s;", snapshot, strings.Join(clauses, ",\n"), database)
}

// ExampleCreateStatement renders a single file CREATE statement against a
// placeholder data directory, for the dry run.
func ExampleCreateStatement(snapshot, database, tag string) string {
	logical := database + "_Data"
	path := exampleDataDir + `\` + snapshot + "." + tag
	return fmt.Sprintf("CREATE DATABASE %s\n      ON ( NAME = %s, FILENAME = '%s' ) \n      AS SNAPSHOT OF %s;",
		snapshot, logical, path, database)
}

func RestoreStatement(database, snapshot string) string {
	return fmt.Sprintf("USE master; RESTORE DATABASE %s FROM DATABASE_SNAPSHOT = '%s';", database, snapshot)
}

func DropStatement(snapshot SnapshotDB) string {
	return fmt.Sprintf("DROP DATABASE %s;", snapshot)
}
