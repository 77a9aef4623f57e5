package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/echomind/internal/observe"
	"github.com/felixgeelhaar/echomind/internal/ui/tui"
)

var (
	apiURL  string
	verbose bool
	jsonOut bool
)

// errFailed signals that a failure notice was already printed.
var errFailed = errors.New("operation failed")

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "echomind",
	Short: "Personal memory assistant",
	Long: `EchoMind stores short texts in a remote memory service, retrieves the
most relevant ones for a query, and lets you browse and delete them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var addCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Store a new memory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, done, err := newRunner(cmd)
		if err != nil {
			return err
		}
		defer done()
		return r.Add(cmd.Context(), strings.Join(args, " "))
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Find the memories most relevant to a query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, done, err := newRunner(cmd)
		if err != nil {
			return err
		}
		defer done()
		return r.Search(cmd.Context(), strings.Join(args, " "))
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every stored memory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, done, err := newRunner(cmd)
		if err != nil {
			return err
		}
		defer done()
		return r.List(cmd.Context())
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a memory by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, done, err := newRunner(cmd)
		if err != nil {
			return err
		}
		defer done()
		return r.Delete(cmd.Context(), args[0])
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the memory service is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, done, err := newRunner(cmd)
		if err != nil {
			return err
		}
		defer done()
		return r.Status(cmd.Context())
	},
}

var importCmd = &cobra.Command{
	Use:   "import [glob...]",
	Short: "Import memories from YAML or JSON files",
	Example: `  echomind import notes.yaml
  echomind import 'journal/**/*.json'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, done, err := newRunner(cmd)
		if err != nil {
			return err
		}
		defer done()
		return r.Import(cmd.Context(), args)
	},
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Start the interactive terminal client",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := settingsDir()
		if err != nil {
			return err
		}
		// The screen belongs to Bubble Tea, so logs go to a file.
		obs, err := observe.NewFile(logPath(dir), verbose)
		if err != nil {
			return err
		}
		defer obs.Close()

		wf, err := buildWorkflows(obs)
		if err != nil {
			return err
		}

		program := tea.NewProgram(tui.NewModel(wf), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("terminal UI failed: %w", err)
		}
		return nil
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Memory service base URL (overrides API_URL and stored settings)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	RootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "JSON output and logs for scripts")

	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(searchCmd)
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(deleteCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(importCmd)
	RootCmd.AddCommand(uiCmd)
}
