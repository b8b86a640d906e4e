package main

import (
	"fmt"
	"os"

	"tp-go/internal/app"
	"tp-go/internal/config"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a TPApp. The caller must defer
// app.Close().
func newApp() (*app.TPApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewTPApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "tp",
	Short: "TOMES email account packager",
	Long:  "tp reorganizes exported email account artifacts from a hot folder into an Archival Information Package.",
}

// config command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Hot folder:  %s\n", cfg.HotFolder)
		fmt.Printf("Destination: %s\n", cfg.Destination)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Hot folder:  %s\n", cfg.HotFolder)
		fmt.Printf("Destination: %s\n", cfg.Destination)
		fmt.Printf("Log dir:     %s\n", cfg.LogDir)
		fmt.Printf("Checksum:    %s\n", cfg.Checksum.Algorithm)
		return nil
	},
}

// package command

var packageCmd = &cobra.Command{
	Use:   "package <account-id>",
	Short: "Build the AIP for an email account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		destination, _ := cmd.Flags().GetString("destination")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		valid, err := a.Package(args[0], source, destination)
		if err != nil {
			return err
		}
		if !valid {
			return fmt.Errorf("AIP for %q is invalid; run 'tp history' for details", args[0])
		}

		fmt.Printf("AIP for %q is valid.\n", args[0])
		return nil
	},
}

// history command

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent packaging runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt64("limit")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No packaging runs recorded.")
			return nil
		}

		for _, run := range runs {
			fmt.Printf("%s  %-8s  %s  (%d attempted, %d succeeded, %d failed)  %s\n",
				run.ID, run.Status, run.AccountID,
				run.Attempted, run.Succeeded, run.Failed,
				humanize.Time(run.CreatedAt))
		}
		return nil
	},
}

// transfers command

var transfersCmd = &cobra.Command{
	Use:   "transfers <run-id>",
	Short: "Show per-item outcomes for a packaging run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		transfers, err := a.Transfers(args[0])
		if err != nil {
			return err
		}

		if len(transfers) == 0 {
			fmt.Println("No transfers recorded for that run.")
			return nil
		}

		for _, t := range transfers {
			status := "passed"
			if !t.Passed {
				status = "FAILED"
			}
			fmt.Printf("%-6s  %-8s  %s\n", status, t.Category, t.ItemPath)
		}
		return nil
	},
}

// inspect command

var inspectCmd = &cobra.Command{
	Use:   "inspect <dir>",
	Short: "List an AIP tree with sizes, MIME types and checksums",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.Inspect(args[0])
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No files found.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%s  %-10s  %-24s  %s\n",
				e.Checksum, humanize.Bytes(uint64(e.Size)), e.MIMEType, e.RelPath)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	packageCmd.Flags().String("source", "", "source hot folder (defaults to config hot_folder)")
	packageCmd.Flags().String("destination", "", "AIP destination folder (defaults to config destination)")

	historyCmd.Flags().Int64("limit", 20, "maximum number of runs to show")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(packageCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(transfersCmd)
	rootCmd.AddCommand(inspectCmd)
}
