package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/noted/internal/config"
	"github.com/aidanlsb/noted/internal/ui"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the noted configuration file",
	}
	cmd.AddCommand(newConfigShowCmd(a), newConfigInitCmd(a), newConfigSetCmd(a))
	return cmd
}

// configData is the effective configuration, after environment variables
// and flags.
func configData(a *app, exists bool) map[string]interface{} {
	c := a.cfg
	return map[string]interface{}{
		"config_path":    a.configPath,
		"exists":         exists,
		"notes_path":     c.ResolvedNotesPath(),
		"database_path":  c.ResolvedDatabasePath(),
		"extension":      c.Extension,
		"excluded_stems": c.ExcludedStems,
		"quiet_period":   c.QuietPeriod.String(),
		"sweep_interval": c.SweepInterval.String(),
		"autostore":      c.Autostore,
		"git_commit":     c.GitCommit,
		"purge_detritus": c.PurgeDetritus,
		"editor":         strings.TrimSpace(c.Editor),
		"log_file":       c.LogFile,
		"log_level":      c.LogLevel,
		"ui": map[string]interface{}{
			"accent":     strings.TrimSpace(c.UI.Accent),
			"code_theme": strings.TrimSpace(c.UI.CodeTheme),
		},
	}
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, statErr := os.Stat(a.configPath)
			exists := statErr == nil

			if a.jsonOutput {
				a.outputSuccess(configData(a, exists), nil)
				return nil
			}

			if exists {
				fmt.Fprintf(a.out, "config: %s\n", ui.FilePath(a.configPath))
			} else {
				fmt.Fprintf(a.out, "config: %s %s\n", a.configPath, ui.Hint("(not created, run 'noted config init')"))
			}

			c := a.cfg
			rows := [][2]string{
				{"notes_path", c.ResolvedNotesPath()},
				{"database_path", c.ResolvedDatabasePath()},
				{"extension", c.Extension},
				{"excluded_stems", strings.Join(c.ExcludedStems, ", ")},
				{"quiet_period", c.QuietPeriod.String()},
				{"sweep_interval", c.SweepInterval.String()},
				{"autostore", fmt.Sprintf("%t", c.Autostore)},
				{"git_commit", fmt.Sprintf("%t", c.GitCommit)},
				{"purge_detritus", fmt.Sprintf("%t", c.PurgeDetritus)},
				{"editor", c.Editor},
				{"log_file", c.LogFile},
				{"log_level", c.LogLevel},
				{"ui.accent", c.UI.Accent},
				{"ui.code_theme", c.UI.CodeTheme},
			}
			tbl := ui.NewTable(2)
			tbl.SetColumnStyle(0, ui.Muted)
			for _, r := range rows {
				if strings.TrimSpace(r[1]) == "" {
					continue
				}
				tbl.AddRow(r[0]+":", r[1])
			}
			fmt.Fprint(a.out, tbl.String())
			return nil
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a commented config file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, statErr := os.Stat(a.configPath)
			existed := statErr == nil

			path, err := config.CreateDefault(a.configPath)
			if err != nil {
				return a.fail(ErrFileWriteError, err, "")
			}

			if a.jsonOutput {
				a.outputSuccess(map[string]interface{}{"config_path": path, "created": !existed}, nil)
				return nil
			}
			if existed {
				fmt.Fprintln(a.out, ui.Warningf("Config already exists: %s", ui.FilePath(path)))
				return nil
			}
			fmt.Fprintln(a.out, ui.Checkf("Created %s", ui.FilePath(path)))
			return nil
		},
	}
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration value",
		Long: fmt.Sprintf(`Sets one value in the config file, creating the file if needed.
Lists are comma separated and durations use Go syntax ("5m", "90s").

Keys: %s

Examples:
  noted config set notes_path ~/notes
  noted config set excluded_stems crap,scratch
  noted config set quiet_period 2m`, strings.Join(config.Keys(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Start from the file alone so environment and flag overrides
			// are not written back.
			cfg := config.Default()
			if _, err := os.Stat(a.configPath); err == nil {
				if cfg, err = config.LoadFrom(a.configPath); err != nil {
					return a.fail(ErrConfigInvalid, err, "")
				}
			}

			if err := cfg.Set(args[0], args[1]); err != nil {
				return a.fail(ErrInvalidInput, err, "Valid keys: "+strings.Join(config.Keys(), ", "))
			}
			if err := config.SaveTo(a.configPath, cfg); err != nil {
				return a.fail(ErrFileWriteError, err, "")
			}

			if a.jsonOutput {
				a.outputSuccess(map[string]interface{}{"config_path": a.configPath, "key": args[0], "value": args[1]}, nil)
				return nil
			}
			fmt.Fprintln(a.out, ui.Checkf("Set %s = %s", args[0], args[1]))
			return nil
		},
	}
}
