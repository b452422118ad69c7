package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/pickem-standings/internal/app"
	"github.com/riskibarqy/pickem-standings/internal/platform/logging"
)

var defaultMigrationDirs = []string{"./db/migrations", "/app/db/migrations"}

func newMigrateCommand(opts *RootOptions) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the postgres schema",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "migrations directory (defaults to MIGRATIONS_DIR or ./db/migrations)")

	run := func(fn func(*migrate.Migrate, *logging.Logger) error) func(*cobra.Command, []string) error {
		return func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := opts.loadRuntime()
			if err != nil {
				return err
			}
			migrationsDir, err := resolveMigrationsDir(dir)
			if err != nil {
				return err
			}
			sourceURL := "file://" + filepath.ToSlash(migrationsDir)
			m, err := migrate.New(sourceURL, app.NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
			if err != nil {
				return fmt.Errorf("create migrator: %w", err)
			}
			defer func() {
				srcErr, dbErr := m.Close()
				if srcErr != nil {
					logger.Warn("close migration source", "error", srcErr)
				}
				if dbErr != nil {
					logger.Warn("close migration db", "error", dbErr)
				}
			}()
			return fn(m, logger)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: run(func(m *migrate.Migrate, logger *logging.Logger) error {
			if err := ignoreNoChange(m.Up(), logger); err != nil {
				return err
			}
			logger.Info("migrations applied")
			return nil
		}),
	})

	downCmd := &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations, one by default",
		Args:  cobra.MaximumNArgs(1),
	}
	downCmd.RunE = func(c *cobra.Command, args []string) error {
		steps, err := parseSteps(args)
		if err != nil {
			return err
		}
		return run(func(m *migrate.Migrate, logger *logging.Logger) error {
			if err := ignoreNoChange(m.Steps(-steps), logger); err != nil {
				return err
			}
			logger.Info("migrations rolled back", "steps", steps)
			return nil
		})(c, args)
	}
	cmd.AddCommand(downCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
	}
	versionCmd.RunE = func(c *cobra.Command, args []string) error {
		return run(func(m *migrate.Migrate, _ *logging.Logger) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				return opts.printJSON(c, map[string]any{"version": nil, "dirty": false})
			}
			if err != nil {
				return fmt.Errorf("read version: %w", err)
			}
			return opts.printJSON(c, map[string]any{"version": version, "dirty": dirty})
		})(c, args)
	}
	cmd.AddCommand(versionCmd)

	forceCmd := &cobra.Command{
		Use:   "force <version>",
		Short: "Mark a version as applied without running it, clearing the dirty flag",
		Args:  cobra.ExactArgs(1),
	}
	forceCmd.RunE = func(c *cobra.Command, args []string) error {
		version, err := parseVersion(args[0])
		if err != nil {
			return err
		}
		return run(func(m *migrate.Migrate, logger *logging.Logger) error {
			if err := m.Force(version); err != nil {
				return fmt.Errorf("force version %d: %w", version, err)
			}
			logger.Info("forced schema version", "version", version)
			return nil
		})(c, args)
	}
	cmd.AddCommand(forceCmd)

	gotoCmd := &cobra.Command{
		Use:   "goto <version>",
		Short: "Migrate up or down to a target version",
		Args:  cobra.ExactArgs(1),
	}
	gotoCmd.RunE = func(c *cobra.Command, args []string) error {
		target, err := parseTarget(args[0])
		if err != nil {
			return err
		}
		return run(func(m *migrate.Migrate, logger *logging.Logger) error {
			if err := ignoreNoChange(m.Migrate(target), logger); err != nil {
				return err
			}
			logger.Info("migrated to version", "version", target)
			return nil
		})(c, args)
	}
	cmd.AddCommand(gotoCmd)

	return cmd
}

func ignoreNoChange(err error, logger *logging.Logger) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

// parseSteps defaults to rolling back a single migration.
func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	return parseAtLeast(args[0], "down steps", 1)
}

func parseVersion(raw string) (int, error) {
	return parseAtLeast(raw, "version", 0)
}

func parseTarget(raw string) (uint, error) {
	v, err := parseAtLeast(raw, "target version", 0)
	return uint(v), err
}

func parseAtLeast(raw, what string, floor int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case err != nil:
		return 0, fmt.Errorf("invalid %s %q: %w", what, raw, err)
	case v < floor:
		return 0, fmt.Errorf("%s must be >= %d, got %d", what, floor, v)
	}
	return v, nil
}

// resolveMigrationsDir prefers the flag, then MIGRATIONS_DIR, then the
// conventional locations for local runs and the container image.
func resolveMigrationsDir(flag string) (string, error) {
	candidates := append([]string{strings.TrimSpace(flag), strings.TrimSpace(os.Getenv("MIGRATIONS_DIR"))}, defaultMigrationDirs...)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("migration directory not found (checked --dir, MIGRATIONS_DIR, %s)", strings.Join(defaultMigrationDirs, ", "))
}
