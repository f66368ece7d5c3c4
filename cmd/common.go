package cmd

import (
	"fmt"
	"os"
	"strings"

	db "github.com/KazanKK/dbss/database"
	"github.com/KazanKK/dbss/internal/config"
	"github.com/KazanKK/dbss/internal/fault"
	"github.com/KazanKK/dbss/internal/logger"
	utils "github.com/KazanKK/dbss/internal/utils"
	"github.com/KazanKK/dbss/internal/ux"
	snapshot "github.com/KazanKK/dbss/snapshots"
	"github.com/Songmu/prompter"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Overridable in tests.
var (
	newGateway = func(env *config.EnvironmentConfig, l *zap.Logger) (db.Gateway, func() error, error) {
		m := db.NewSQLServerManager(l)
		if err := m.ConnectWithDSN(env.DSN()); err != nil {
			return nil, nil, errors.Wrapf(err, "opening connection to %s", env.Server)
		}
		return m, m.Close, nil
	}
	stdinIsTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd()))
	}
	readPassword = func() (string, error) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		return string(b), err
	}
	confirm = func(prompt string) bool {
		return prompter.YN(prompt, false)
	}
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "environment",
			Aliases: []string{"e"},
			Usage:   "Environment to operate on",
			Value:   config.DefaultEnvironment,
			EnvVars: []string{"DBSS_ENVIRONMENT"},
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Suppress narration, report failures on stderr only",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Log every SQL statement to stderr",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to config file (default: dbss.yaml in this or a parent directory, else ~/.dbss/config.yaml)",
		},
		&cli.StringFlag{
			Name:    "server",
			Usage:   "Override the environment's server",
			EnvVars: []string{"DBSS_SERVER"},
		},
		&cli.StringFlag{
			Name:    "user",
			Usage:   "Override the environment's login",
			EnvVars: []string{"DBSS_USER"},
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "Override the environment's password",
			EnvVars: []string{"DBSS_PASSWORD"},
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Usage: "Output format: table or csv",
		Value: "table",
	}
}

// invocation holds what a single command run needs.
type invocation struct {
	UI     *ux.UserLog
	Logger *zap.Logger
	Env    *config.EnvironmentConfig

	closeGateway func() error
}

// action wraps a command body: failures are reported once through the user
// log and turned into the matching exit status.
func action(fn func(c *cli.Context, s *invocation) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		ui := ux.NewUserLog(c.App.Writer, c.App.ErrWriter, c.Bool("quiet"))
		l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("debug")})
		if err != nil {
			l = zap.NewNop()
		}
		defer l.Sync()

		s := &invocation{UI: ui, Logger: l}
		err = s.run(c, fn)
		if s.closeGateway != nil {
			if cerr := s.closeGateway(); cerr != nil {
				l.Sugar().Debugw("Failed to close connection pool", "error", cerr)
			}
		}
		return report(ui, err)
	}
}

// report prints err once and converts it to the process exit status.
func report(ui *ux.UserLog, err error) error {
	if err == nil {
		return nil
	}
	ui.Fail(err)
	return cli.Exit("", fault.ExitCode(err))
}

func (s *invocation) run(c *cli.Context, fn func(c *cli.Context, s *invocation) error) error {
	env, err := resolveEnvironment(c)
	if err != nil {
		return err
	}
	s.Env = env
	s.Logger.Sugar().Debugw("Resolved environment", "environment", env.Name, "server", env.Server, "databases", len(env.Databases))
	return fn(c, s)
}

func resolveEnvironment(c *cli.Context) (*config.EnvironmentConfig, error) {
	registry := config.NewRegistry()

	path := c.String("config")
	if path != "" {
		expanded, err := utils.ExpandHome(path)
		if err != nil {
			return nil, fault.Configf(fault.UnknownEnvironment, "%v", err)
		}
		path = expanded
	} else if found, err := utils.FindConfigFile(); err == nil {
		path = found
	}
	if path != "" {
		fc, err := config.LoadFile(path)
		if err != nil {
			return nil, fault.Configf(fault.UnknownEnvironment, "%v", err)
		}
		registry.Merge(fc)
	}

	env, err := registry.Resolve(c.String("environment"), c.Bool("quiet"))
	if err != nil {
		return nil, err
	}
	if v := c.String("server"); v != "" {
		env.Server = v
	}
	if v := c.String("user"); v != "" {
		env.User = v
	}
	if v := c.String("password"); v != "" {
		env.Password = v
	}
	return env, nil
}

// gateway opens the connection pool for the resolved environment. It is
// closed when the command returns.
func (s *invocation) gateway(c *cli.Context) (db.Gateway, error) {
	if s.Env.Password == "" && stdinIsTerminal() {
		fmt.Fprintf(c.App.ErrWriter, "Password for %s@%s: ", s.Env.User, s.Env.Server)
		password, err := readPassword()
		fmt.Fprintln(c.App.ErrWriter)
		if err != nil {
			return nil, errors.Wrap(err, "reading password")
		}
		s.Env.Password = password
	}

	g, closeFn, err := newGateway(s.Env, s.Logger)
	if err != nil {
		return nil, err
	}
	s.closeGateway = closeFn
	return g, nil
}

func (s *invocation) manager(c *cli.Context) (*snapshot.Manager, error) {
	g, err := s.gateway(c)
	if err != nil {
		return nil, err
	}
	return snapshot.NewManager(s.Env, g, s.UI, s.Logger), nil
}

// databaseArg returns the upper-cased database argument. When whitelisted is
// set the name must belong to the environment's white list.
func databaseArg(c *cli.Context, env *config.EnvironmentConfig, whitelisted bool) (string, error) {
	if c.NArg() < 1 {
		return "", fault.Validationf(fault.Usage, "%s requires a database argument", c.Command.Name)
	}
	database := strings.ToUpper(strings.TrimSpace(c.Args().First()))
	if whitelisted && !env.Whitelisted(database) {
		return "", fault.Validationf(fault.UnknownDatabase, "Database '%s' Unknown (check help for white list)", database)
	}
	return database, nil
}

func csvFormat(c *cli.Context) (bool, error) {
	switch f := c.String("format"); f {
	case "", "table":
		return false, nil
	case "csv":
		return true, nil
	default:
		return false, fault.Validationf(fault.Usage, "unknown format %q (table or csv)", f)
	}
}
