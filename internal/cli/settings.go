package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/handtrack/internal/config"
	"github.com/ayusman/handtrack/internal/store"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and change persisted settings",
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting with its stored value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "KEY\tSTORED\tDEFAULT\tENV")
		for _, s := range config.Keys() {
			value, ok := stored[s.Key]
			if !ok {
				value = "-"
			}
			env := os.Getenv(s.Env)
			if env != "" {
				env = s.Env + "=" + env
			} else {
				env = s.Env
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Key, value, s.Default, env)
		}
		return w.Flush()
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the stored value of a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := config.NormalizeKey(args[0])
		if err != nil {
			return err
		}
		value, err := db.Settings().Get(key)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%s is not set", key)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := config.NormalizeKey(args[0])
		if err != nil {
			return err
		}
		if err := config.CheckSetting(stored, key, args[1]); err != nil {
			return err
		}
		if err := db.Settings().Set(key, args[1]); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
		log.Debug("setting saved", zap.String("key", key))
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, args[1])
		return nil
	},
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a stored setting so the default applies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := config.NormalizeKey(args[0])
		if err != nil {
			return err
		}
		err = db.Settings().Delete(key)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%s is not set", key)
		}
		return err
	},
}

func init() {
	settingsCmd.AddCommand(settingsListCmd, settingsGetCmd, settingsSetCmd, settingsUnsetCmd)
	rootCmd.AddCommand(settingsCmd)
}
