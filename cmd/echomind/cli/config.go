package cli

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/echomind/internal/client"
	"github.com/felixgeelhaar/echomind/internal/credential"
	"github.com/felixgeelhaar/echomind/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

func checkKey(key string) error {
	if !slices.Contains(store.KnownKeys, key) {
		return fmt.Errorf("unknown key %q (known: %s)", key, strings.Join(store.KnownKeys, ", "))
	}
	return nil
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := checkKey(key); err != nil {
			return err
		}

		s, err := getStore()
		if err != nil {
			return err
		}
		defer s.Close()

		switch key {
		case store.KeyAPIToken:
			if err := credential.NewManager().SaveSecret(s, key, value); err != nil {
				return fmt.Errorf("failed to set config: %w", err)
			}
		case store.KeyAPIURL:
			if err := s.SetConfig(key, client.NormalizeBaseURL(value)); err != nil {
				return fmt.Errorf("failed to set config: %w", err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved: %s\n", key)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if err := checkKey(key); err != nil {
			return err
		}

		s, err := getStore()
		if err != nil {
			return err
		}
		defer s.Close()

		val, err := display(s, key)
		if err != nil {
			return err
		}
		if val == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "(not set)")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), val)
		}
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkKey(args[0]); err != nil {
			return err
		}
		s, err := getStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.DeleteConfig(args[0]); err != nil {
			return fmt.Errorf("failed to unset config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration removed: %s\n", args[0])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every stored value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		defer s.Close()

		all, err := s.ListConfig()
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			val, err := display(s, k)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", k, val)
		}
		return nil
	},
}

// display returns the printable form of a setting; secrets are masked.
func display(s store.Storage, key string) (string, error) {
	if key != store.KeyAPIToken {
		return s.GetConfig(key)
	}
	token, err := credential.NewManager().LoadSecret(s, key)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	if token == "" {
		return "", nil
	}
	return credential.MaskSecret(token), nil
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configListCmd)
}
