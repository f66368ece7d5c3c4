package snapshot

import (
	"context"

	db "github.com/KazanKK/dbss/database"
	"github.com/KazanKK/dbss/internal/config"
	"github.com/KazanKK/dbss/internal/fault"
	"github.com/KazanKK/dbss/internal/ux"
	"go.uber.org/zap"
)

const statusMissing = "MISSING"

// Manager creates, restores and drops the snapshot of a single database.
// Every precondition is checked against a fresh survey.
type Manager struct {
	Env     *config.EnvironmentConfig
	Gateway db.Gateway
	Survey  *db.Survey
	UI      *ux.UserLog
	Logger  *zap.Logger
}

func NewManager(env *config.EnvironmentConfig, g db.Gateway, ui *ux.UserLog, l *zap.Logger) *Manager {
	if l == nil {
		l = zap.NewNop()
	}
	return &Manager{
		Env:     env,
		Gateway: g,
		Survey:  db.NewSurvey(g),
		UI:      ui,
		Logger:  l,
	}
}

func (m *Manager) SnapshotOf(database string) string {
	return SnapshotName(database, m.Env.SnapshotSuffix)
}

// Create takes a fresh snapshot of database, replacing an existing one.
func (m *Manager) Create(ctx context.Context, database string) error {
	snap := m.SnapshotOf(database)

	exists, err := m.Survey.Exists(ctx, snap)
	if err != nil {
		return err
	}
	if exists {
		m.Logger.Sugar().Debugw("Replacing existing snapshot", "snapshot", snap)
		if err := m.DropNamed(ctx, snap); err != nil {
			return err
		}
		if exists, err = m.Survey.Exists(ctx, snap); err != nil {
			return err
		}
		if exists {
			return fault.Preconditionf(fault.SnapshotNotReplaced,
				"Snapshot %s could not be dropped (for replacement).", snap)
		}
	}

	if err := m.requireOnline(ctx, database, fault.NotOnlineForSnapshot, "snapshot"); err != nil {
		return err
	}

	dataFiles, err := m.Survey.DataFiles(ctx, database)
	if err != nil {
		return err
	}
	files := SnapshotFiles(dataFiles, m.Env.SnapshotSuffix, m.Env.SnapshotFileTag)
	stmt := CreateStatement(snap, database, files)
	m.Logger.Sugar().Debugw("Creating snapshot", "database", database, "snapshot", snap, "files", len(files))
	if err := m.Gateway.Execute(ctx, stmt, fault.SnapshotCreateFailed); err != nil {
		return err
	}

	if exists, err = m.Survey.Exists(ctx, snap); err != nil {
		return err
	}
	if !exists {
		return fault.Preconditionf(fault.SnapshotNotCreated,
			"Snapshot %s could not be created in %s.", snap, m.Env.Name)
	}
	return nil
}

// Restore reverts database to its snapshot, discarding every change made
// since the snapshot was taken. The server refuses while other sessions hold
// the database open; see db.Reaper.
func (m *Manager) Restore(ctx context.Context, database string) error {
	snap := m.SnapshotOf(database)

	exists, err := m.Survey.Exists(ctx, snap)
	if err != nil {
		return err
	}
	if !exists {
		return fault.Preconditionf(fault.RestoreSnapshotMissing,
			"Snapshot %s does not exist in %s.", snap, m.Env.Name)
	}

	if err := m.requireOnline(ctx, database, fault.NotOnlineForRestore, "restore"); err != nil {
		return err
	}

	m.Logger.Sugar().Debugw("Restoring database", "database", database, "snapshot", snap)
	return m.Gateway.Execute(ctx, RestoreStatement(database, snap), fault.RestoreFailed)
}

// Drop removes a snapshot database. Values not built by NewSnapshotDB are
// refused before any statement is sent.
func (m *Manager) Drop(ctx context.Context, snap SnapshotDB) error {
	if !snap.Valid() {
		return fault.Validationf(fault.RefuseDropNonSnapshot,
			"Request to drop %q, only snapshots may be dropped.", snap.String())
	}
	m.Logger.Sugar().Debugw("Dropping snapshot", "snapshot", snap.String())
	return m.Gateway.Execute(ctx, DropStatement(snap), fault.DropFailed)
}

// DropNamed drops name after checking that it is a snapshot. Non-snapshot
// names fail without any statement being issued.
func (m *Manager) DropNamed(ctx context.Context, name string) error {
	snap, err := NewSnapshotDB(name, m.Env.SnapshotSuffix)
	if err != nil {
		return err
	}
	return m.Drop(ctx, snap)
}

// Destroy drops the snapshot of database. A missing snapshot is not an
// error. Reports whether a snapshot was dropped.
func (m *Manager) Destroy(ctx context.Context, database string) (bool, error) {
	snap := m.SnapshotOf(database)

	exists, err := m.Survey.Exists(ctx, snap)
	if err != nil {
		return false, err
	}
	if !exists {
		m.UI.Say("Snapshot %s not found in %s.", snap, m.Env.Name)
		return false, nil
	}

	if err := m.DropNamed(ctx, snap); err != nil {
		return false, err
	}

	if exists, err = m.Survey.Exists(ctx, snap); err != nil {
		return false, err
	}
	if exists {
		return false, fault.Preconditionf(fault.SnapshotNotDestroyed, "Snapshot %s could not be dropped", snap)
	}
	return true, nil
}

// Explain prints the statements the other operations would run for
// database without contacting the server.
func (m *Manager) Explain(database string) {
	snap := m.SnapshotOf(database)
	ui := m.UI

	ui.Print("SQL Statements used by dbss script...")
	ui.Print("\n1] Query to obtain databases in environment.")
	ui.Print("   %s", db.DatabasesQuery)
	ui.Print("\n2] Query to obtain files associated with database.")
	ui.Print("   %s", db.DataFilesQuery(database))
	ui.Print("\n3] Command to create database snapshot.")
	ui.Print("...[Warning: Create statement is purely example. File name and path must be built from query\n" +
		"...on sys.database_files due to use of SQL Server filegroups. Filegroups should be kept online\n" +
		"...to simplify snapshot use, and FILESTREAMS must be avoided.]")
	ui.Print("   %s", ExampleCreateStatement(snap, database, m.Env.SnapshotFileTag))
	ui.Print("\n4] Command to revert database to snapshot.")
	ui.Print("   %s", RestoreStatement(database, snap))
	ui.Print("\n5] Command to delete snapshot.")
	ui.Print("   DROP DATABASE %s;", snap)
	ui.Print("\n[finis]")
}

func (m *Manager) requireOnline(ctx context.Context, database string, code fault.Code, purpose string) error {
	status, ok, err := m.Survey.Status(ctx, database)
	if err != nil {
		return err
	}
	if !ok {
		status = statusMissing
	}
	if status != db.StatusOnline {
		return fault.Preconditionf(code,
			"Database '%s' is '%s', status must be ONLINE for %s.", database, status, purpose)
	}
	return nil
}
