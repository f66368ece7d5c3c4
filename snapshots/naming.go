package snapshot

import (
	"strings"

	"github.com/KazanKK/dbss/internal/fault"
)

// SnapshotName converts a database name to its snapshot name.
func SnapshotName(database, suffix string) string {
	return database + suffix
}

// OriginalName converts a snapshot name back to its source database name.
// Only call it on names already known to be snapshots.
func OriginalName(snapshot, suffix string) string {
	if len(snapshot) < len(suffix) {
		return ""
	}
	return snapshot[:len(snapshot)-len(suffix)]
}

// IsSnapshot reports whether name follows the snapshot naming convention.
// The suffix may appear anywhere in the name, not only at the end.
func IsSnapshot(name, suffix string) bool {
	return suffix != "" && strings.Contains(name, suffix)
}

// SnapshotDB is a database name that has passed the IsSnapshot check. It is
// the only thing the drop primitive accepts.
type SnapshotDB struct {
	name    string
	checked bool
}

func NewSnapshotDB(name, suffix string) (SnapshotDB, error) {
	if !IsSnapshot(name, suffix) {
		return SnapshotDB{}, fault.Validationf(fault.RefuseDropNonSnapshot,
			"Request to drop %s, only snapshots may be dropped.", name)
	}
	return SnapshotDB{name: name, checked: true}, nil
}

// Valid reports whether s came from NewSnapshotDB.
func (s SnapshotDB) Valid() bool {
	return s.checked && s.name != ""
}

func (s SnapshotDB) String() string {
	return s.name
}
