package snapshot

import (
	"context"
	"fmt"

	"github.com/KazanKK/dbss/internal/fault"
)

// Batch applies Manager operations to every whitelisted database in the
// declared order. The first failure stops the batch.
type Batch struct {
	Manager *Manager
	// Confirm, when set, is asked before clean_slate drops anything.
	Confirm func(prompt string) bool
}

func NewBatch(m *Manager) *Batch {
	return &Batch{Manager: m}
}

func (b *Batch) GenerateBaseline(ctx context.Context) error {
	env := b.Manager.Env
	for _, database := range env.Databases {
		b.Manager.UI.Say("Creating snapshot for %q in %s.", database, env.Name)
		if err := b.Manager.Create(ctx, database); err != nil {
			return err
		}
	}
	return nil
}

func (b *Batch) RevertEnvironment(ctx context.Context) error {
	env := b.Manager.Env
	for _, database := range env.Databases {
		b.Manager.UI.Say("Restoring %q from snapshot in %s.", database, env.Name)
		if err := b.Manager.Restore(ctx, database); err != nil {
			return err
		}
	}
	return nil
}

// DropCandidates lists the snapshots on the server whose source database is
// whitelisted, in server order. Snapshots of other databases are left alone.
func (b *Batch) DropCandidates(ctx context.Context) ([]SnapshotDB, error) {
	env := b.Manager.Env
	databases, err := b.Manager.Survey.Databases(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []SnapshotDB
	for pair := databases.Oldest(); pair != nil; pair = pair.Next() {
		snap, err := NewSnapshotDB(pair.Key, env.SnapshotSuffix)
		if err != nil {
			continue
		}
		if env.Whitelisted(OriginalName(pair.Key, env.SnapshotSuffix)) {
			candidates = append(candidates, snap)
		}
	}
	return candidates, nil
}

// CleanSlate drops every whitelisted snapshot and returns the dropped names.
func (b *Batch) CleanSlate(ctx context.Context) ([]string, error) {
	ui := b.Manager.UI
	candidates, err := b.DropCandidates(ctx)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		ui.Say("Slate clean (no snapshots to drop)")
		return nil, nil
	}

	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.String())
	}
	ui.Say("Database Snapshots to drop: %v", names)

	if b.Confirm != nil && !b.Confirm(fmt.Sprintf("Drop %d snapshots?", len(names))) {
		return nil, fmt.Errorf("clean_slate aborted, no snapshots dropped")
	}

	dropped := make([]string, 0, len(candidates))
	for _, snap := range candidates {
		if err := b.Manager.Drop(ctx, snap); err != nil {
			return dropped, err
		}
		exists, err := b.Manager.Survey.Exists(ctx, snap.String())
		if err != nil {
			return dropped, err
		}
		if exists {
			return dropped, fault.Preconditionf(fault.CleanSlateDropFailed, "Snapshot %s could not be dropped", snap)
		}
		dropped = append(dropped, snap.String())
	}
	return dropped, nil
}

// CheckBaseline returns the whitelisted databases that have no snapshot.
func (b *Batch) CheckBaseline(ctx context.Context) ([]string, error) {
	env := b.Manager.Env
	databases, err := b.Manager.Survey.Databases(ctx)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, database := range env.Databases {
		if _, ok := databases.Get(b.Manager.SnapshotOf(database)); !ok {
			missing = append(missing, database)
		}
	}
	return missing, nil
}
