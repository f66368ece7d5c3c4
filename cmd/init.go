package cmd

import (
	"fmt"
	"os"

	"github.com/KazanKK/dbss/internal/config"
	"github.com/KazanKK/dbss/internal/fault"
	utils "github.com/KazanKK/dbss/internal/utils"
	"github.com/KazanKK/dbss/internal/ux"
	"github.com/urfave/cli/v2"
)

func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a dbss.yaml environment template in the current directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "environment",
				Aliases: []string{"e"},
				Usage:   "Name of the environment to describe",
				Value:   config.DefaultEnvironment,
			},
			&cli.StringFlag{
				Name:  "server",
				Usage: "Database server host",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Database server port (default: driver default)",
			},
			&cli.StringFlag{
				Name:  "user",
				Usage: "Login used to connect",
			},
			&cli.StringSliceFlag{
				Name:  "database",
				Usage: "White listed database (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing dbss.yaml",
			},
		},
		Action: func(c *cli.Context) error {
			ui := ux.NewUserLog(c.App.Writer, c.App.ErrWriter, false)
			return report(ui, writeTemplate(c, ui))
		},
	}
}

func writeTemplate(c *cli.Context, ui *ux.UserLog) error {
	name := c.String("environment")

	// Start from the built-in environment of the same name, if any
	spec, _ := config.Builtin(name)
	spec.Password = ""
	if c.IsSet("server") {
		spec.Server = c.String("server")
	}
	if c.IsSet("port") {
		spec.Port = c.Int("port")
	}
	if c.IsSet("user") {
		spec.User = c.String("user")
	}
	if c.IsSet("database") {
		spec.Databases = config.NormalizeDatabases(c.StringSlice("database"))
	}
	if spec.Server == "" {
		return fault.Configf(fault.UnknownEnvironment, "Environment '%s' needs --server", name)
	}
	if spec.SnapshotSuffix == "" {
		spec.SnapshotSuffix = config.DefaultSnapshotSuffix
	}
	if spec.SnapshotFileTag == "" {
		spec.SnapshotFileTag = config.DefaultSnapshotFileTag
	}

	if _, err := os.Stat(utils.ConfigFileName); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", utils.ConfigFileName)
	}

	yamlData, err := config.Template(name, spec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(utils.ConfigFileName, yamlData, 0600); err != nil {
		return fmt.Errorf("writing config file: %v", err)
	}

	ui.Print("Created %s with environment %s (%d databases)", utils.ConfigFileName, name, len(spec.Databases))
	return nil
}
