package cmd

import (
	snapshot "github.com/KazanKK/dbss/snapshots"
	"github.com/urfave/cli/v2"
)

func CreateCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create (or replace) the snapshot of a white listed database",
		ArgsUsage: "<db>",
		Flags:     commonFlags(),
		Action: action(func(c *cli.Context, s *invocation) error {
			database, err := databaseArg(c, s.Env, true)
			if err != nil {
				return err
			}
			m, err := s.manager(c)
			if err != nil {
				return err
			}
			if err := m.Create(c.Context, database); err != nil {
				return err
			}
			s.UI.Success("Snapshot created!")
			return nil
		}),
	}
}

func RestoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Revert a white listed database to its snapshot",
		ArgsUsage: "<db>",
		Flags:     commonFlags(),
		Action: action(func(c *cli.Context, s *invocation) error {
			database, err := databaseArg(c, s.Env, true)
			if err != nil {
				return err
			}
			m, err := s.manager(c)
			if err != nil {
				return err
			}
			if err := m.Restore(c.Context, database); err != nil {
				return err
			}
			s.UI.Success("Database restored!")
			return nil
		}),
	}
}

func DestroyCommand() *cli.Command {
	return &cli.Command{
		Name:      "destroy",
		Usage:     "Drop the snapshot of a white listed database",
		ArgsUsage: "<db>",
		Flags:     commonFlags(),
		Action: action(func(c *cli.Context, s *invocation) error {
			database, err := databaseArg(c, s.Env, true)
			if err != nil {
				return err
			}
			m, err := s.manager(c)
			if err != nil {
				return err
			}
			dropped, err := m.Destroy(c.Context, database)
			if err != nil {
				return err
			}
			if dropped {
				s.UI.Success("Snapshot destroyed!")
			}
			return nil
		}),
	}
}

func TestCommand() *cli.Command {
	return &cli.Command{
		Name:      "test",
		Usage:     "Print the SQL statements used for a database without connecting",
		ArgsUsage: "<db>",
		Flags:     commonFlags(),
		Action: action(func(c *cli.Context, s *invocation) error {
			database, err := databaseArg(c, s.Env, false)
			if err != nil {
				return err
			}
			snapshot.NewManager(s.Env, nil, s.UI, s.Logger).Explain(database)
			return nil
		}),
	}
}
