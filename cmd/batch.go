package cmd

import (
	snapshot "github.com/KazanKK/dbss/snapshots"
	"github.com/urfave/cli/v2"
)

func GenerateBaselineCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate_baseline",
		Usage: "Create snapshots for every white listed database, stopping at the first failure",
		Flags: commonFlags(),
		Action: action(func(c *cli.Context, s *invocation) error {
			m, err := s.manager(c)
			if err != nil {
				return err
			}
			if err := snapshot.NewBatch(m).GenerateBaseline(c.Context); err != nil {
				return err
			}
			s.UI.Success("Environment baseline generated!")
			return nil
		}),
	}
}

func RevertEnvironmentCommand() *cli.Command {
	return &cli.Command{
		Name:  "revert_environment",
		Usage: "Restore every white listed database from its snapshot, stopping at the first failure",
		Flags: commonFlags(),
		Action: action(func(c *cli.Context, s *invocation) error {
			m, err := s.manager(c)
			if err != nil {
				return err
			}
			if err := snapshot.NewBatch(m).RevertEnvironment(c.Context); err != nil {
				return err
			}
			s.UI.Success("Environment reverted to baseline!")
			return nil
		}),
	}
}

func CleanSlateCommand() *cli.Command {
	return &cli.Command{
		Name:  "clean_slate",
		Usage: "Drop the snapshots of every white listed database",
		Flags: append(commonFlags(), &cli.BoolFlag{
			Name:  "yes",
			Usage: "Do not ask for confirmation",
		}),
		Action: action(func(c *cli.Context, s *invocation) error {
			m, err := s.manager(c)
			if err != nil {
				return err
			}
			b := snapshot.NewBatch(m)
			if !c.Bool("yes") && !s.UI.Quiet && stdinIsTerminal() {
				b.Confirm = confirm
			}
			dropped, err := b.CleanSlate(c.Context)
			if err != nil {
				return err
			}
			if len(dropped) > 0 {
				s.UI.Success("Snapshots dropped!")
			}
			return nil
		}),
	}
}
