package cmd

import (
	"os"

	"github.com/urfave/cli/v2"
)

var Version = "1.0.0"

func NewApp() *cli.App {
	return &cli.App{
		Name:      "dbss",
		Usage:     "Create, restore and drop SQL Server database snapshots for test environments",
		Version:   Version,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Commands: []*cli.Command{
			InitCommand(),
			CreateCommand(),
			RestoreCommand(),
			DestroyCommand(),
			TestCommand(),
			ListCommand(),
			SurveyCommand(),
			CheckBaselineCommand(),
			KillConnectionsCommand(),
			GenerateBaselineCommand(),
			RevertEnvironmentCommand(),
			CleanSlateCommand(),
		},
	}
}
