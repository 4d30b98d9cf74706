package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/spoolfinder/internal/app"
	"github.com/five82/spoolfinder/internal/spool"
)

// cliState carries the global flags and the bootstrapped environment
// between the persistent hooks and the subcommands.
type cliState struct {
	opts   app.Options
	env    *app.Env
	closed bool
}

func (st *cliState) close() {
	if st.env != nil {
		st.env.Close()
		st.closed = true
	}
}

// rootCommand creates the spoolfinder command tree. Running it without a
// subcommand starts the TUI.
func rootCommand(st *cliState) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "spoolfinder",
		Short:         "Look up spools by ID or name",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return st.env.RunUI(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&st.opts.ConfigPath, "config", "", "config file path (default ~/.config/spoolfinder/config.toml)")
	flags.StringVar(&st.opts.PrefsPath, "prefs", "", "preferences file path (default ~/.config/spoolfinder/prefs.toml)")
	flags.BoolVarP(&st.opts.Verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		env, err := app.Bootstrap(cmd.Context(), st.opts)
		if err != nil {
			return err
		}
		st.env = env
		return nil
	}

	rootCmd.AddCommand(
		lookupCommand(st),
		searchCommand(st),
		sourcesCommand(st),
		adminCommand(st),
	)
	return rootCmd
}

func lookupCommand(st *cliState) *cobra.Command {
	var byName, probe bool
	cmd := &cobra.Command{
		Use:   "lookup <id>",
		Short: "Print the card for one spool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.LookupOptions{ByName: byName}
			if probe {
				opts.Prober = st.env.Prober
			}
			return app.Lookup(cmd.Context(), st.env.Loader, cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&byName, "name", false, "match the spool name instead of the ID")
	cmd.Flags().BoolVar(&probe, "probe", false, "check media links and hide the broken ones")
	return cmd
}

func searchCommand(st *cliState) *cobra.Command {
	var by string
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "List spools whose ID or name contains the query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := parseField(by)
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = st.env.Config.SuggestionLimit
			}
			return app.Search(cmd.Context(), st.env.Loader, cmd.OutOrStdout(), args[0], field, limit)
		},
	}
	cmd.Flags().StringVar(&by, "by", "id", "field to search: id or name")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (default from config)")
	return cmd
}

func sourcesCommand(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Show the loader fallback chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.PrintSources(cmd.OutOrStdout(), st.env.Loader.Sources())
		},
	}
}

func adminCommand(st *cliState) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Talk to the dataset admin endpoint",
	}

	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Check the admin endpoint and print diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := app.AdminContext(cmd.Context())
			defer cancel()
			return app.Ping(ctx, st.env.Admin, cmd.OutOrStdout(), st.env.Now())
		},
	}

	var password string
	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild the published dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := app.AdminContext(cmd.Context())
			defer cancel()
			return app.Refresh(ctx, st.env.Admin, cmd.OutOrStdout(), password)
		},
	}
	refreshCmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	_ = refreshCmd.MarkFlagRequired("password")

	adminCmd.AddCommand(pingCmd, refreshCmd)
	return adminCmd
}

func parseField(value string) (spool.Field, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "id":
		return spool.FieldID, nil
	case "name", "spool":
		return spool.FieldName, nil
	default:
		return spool.FieldID, fmt.Errorf("unknown search field %q (want id or name)", value)
	}
}
