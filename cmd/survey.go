package cmd

import (
	db "github.com/KazanKK/dbss/database"
	snapshot "github.com/KazanKK/dbss/snapshots"
	"github.com/urfave/cli/v2"
)

// WhitelistRecord is the csv row for list and check_baseline.
type WhitelistRecord struct {
	Database string `csv:"database"`
}

func whitelistRecords(names []string) []*WhitelistRecord {
	records := make([]*WhitelistRecord, 0, len(names))
	for _, n := range names {
		records = append(records, &WhitelistRecord{Database: n})
	}
	return records
}

func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the database white list of the environment",
		Flags: append(commonFlags(), formatFlag()),
		Action: action(func(c *cli.Context, s *invocation) error {
			asCSV, err := csvFormat(c)
			if err != nil {
				return err
			}
			if asCSV {
				return s.UI.CSV(whitelistRecords(s.Env.Databases))
			}
			s.UI.Print("Database white list for %s environment:", s.Env.Name)
			for _, database := range s.Env.Databases {
				s.UI.Print("  %s", database)
			}
			s.UI.Print("  [finis]")
			return nil
		}),
	}
}

func SurveyCommand() *cli.Command {
	return &cli.Command{
		Name:  "survey",
		Usage: "List the databases on the environment's server with their status",
		Flags: append(commonFlags(), formatFlag()),
		Action: action(func(c *cli.Context, s *invocation) error {
			asCSV, err := csvFormat(c)
			if err != nil {
				return err
			}
			g, err := s.gateway(c)
			if err != nil {
				return err
			}
			records, err := db.NewSurvey(g).Records(c.Context)
			if err != nil {
				return err
			}
			if asCSV {
				return s.UI.CSV(records)
			}

			s.UI.Print("Survey of databases available in %s environment:", s.Env.Name)
			rows := make([][]string, 0, len(records))
			for _, r := range records {
				rows = append(rows, []string{r.Name, r.Status})
			}
			s.UI.Table([]string{"Database", "Status"}, rows)
			s.UI.Print("  [finis - sanity checked!]")
			return nil
		}),
	}
}

func CheckBaselineCommand() *cli.Command {
	return &cli.Command{
		Name:  "check_baseline",
		Usage: "Report white listed databases that have no snapshot",
		Flags: append(commonFlags(), formatFlag()),
		Action: action(func(c *cli.Context, s *invocation) error {
			asCSV, err := csvFormat(c)
			if err != nil {
				return err
			}
			m, err := s.manager(c)
			if err != nil {
				return err
			}
			if !asCSV {
				s.UI.Print("Checking snapshots available in %s environment against white list...", s.Env.Name)
			}
			missing, err := snapshot.NewBatch(m).CheckBaseline(c.Context)
			if err != nil {
				return err
			}
			if asCSV {
				return s.UI.CSV(whitelistRecords(missing))
			}

			if len(missing) == 0 {
				s.UI.Print("Baseline ready (snapshots exist for required databases).")
				return nil
			}
			s.UI.Print("Snapshots missing for these databases:")
			rows := make([][]string, 0, len(missing))
			for _, database := range missing {
				rows = append(rows, []string{database, m.SnapshotOf(database)})
			}
			s.UI.Table([]string{"Database", "Snapshot"}, rows)
			return nil
		}),
	}
}

func KillConnectionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "kill_connections",
		Usage: "Kill every other client session on the server (best effort)",
		Description: "Asks the server to kill all sessions except this one and the server's own.\n" +
			"This is best effort only: client connection pools may reconnect right away,\n" +
			"so do not rely on the server staying free of sessions afterwards.",
		Flags: commonFlags(),
		Action: action(func(c *cli.Context, s *invocation) error {
			g, err := s.gateway(c)
			if err != nil {
				return err
			}
			killed, err := db.NewReaper(g, s.Logger).KillConnections(c.Context)
			if err != nil {
				return err
			}
			s.UI.Say("Killed %d connections.", len(killed))
			return nil
		}),
	}
}
