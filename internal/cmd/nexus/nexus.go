// Package nexus parses maintenance CLI flags, opens the compendium database
// and prints an integrity report.
package nexus

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/lorekeep/nexus/internal/compendium/service"
	"github.com/lorekeep/nexus/internal/platform/config"
	"github.com/lorekeep/nexus/internal/platform/paths"
)

// DefaultDatabaseFile is the filename probed in the working and executable
// directories when no explicit path is given.
const DefaultDatabaseFile = "nexus.db"

// Config holds nexus command configuration.
type Config struct {
	DBPath string `env:"NEXUS_DB_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the compendium database (overrides discovery)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens (and migrates) the database, sweeps it for inconsistencies and
// writes the report. A dirty database is reported but is not an error.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	path, err := paths.ResolveDatabase(cfg.DBPath, DefaultDatabaseFile, nil)
	if err != nil {
		return err
	}

	svc, err := service.New(path)
	if err != nil {
		return fmt.Errorf("open database %s: %w", path, err)
	}
	defer svc.Close()

	report, err := svc.CheckIntegrity(ctx)
	if err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}

	fmt.Fprintf(out, "database: %s\n", path)
	fmt.Fprintf(out, "checks run: %d\n", report.Checked)
	if len(report.Issues) == 0 {
		fmt.Fprintln(out, "no issues found")
		return nil
	}
	fmt.Fprintf(out, "issues found: %d\n", len(report.Issues))
	for _, issue := range report.Issues {
		fmt.Fprintf(out, "  [%s] %s %s: %s\n", issue.Kind, issue.Table, issue.RowID, issue.Message)
	}
	return nil
}
