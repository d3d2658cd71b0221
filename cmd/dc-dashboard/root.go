package main

import (
	"github.com/openstandia/dc-dashboard/lib"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dc-dashboard",
	Short: "Direct customer dashboard behind the hosted login page",
	Long: `Direct customer dashboard behind the hosted login page.

Serves the dashboard page, exchanges the authorization code returned by the
identity provider for session data and shows the customer's endpoint.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		lib.IsTraceEnabled, _ = cmd.Flags().GetBool("trace")
	},
}

// flags that override a configuration key when set
var flagKeys = map[string]string{
	"env":       lib.ENVIRONMENT,
	"backend":   lib.BACKEND_URL,
	"log-level": lib.LOG_LEVEL,
	"listen":    lib.LISTEN,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Configuration directory (default $DC_DASHBOARD_CONFIG or ~/.dc-dashboard)")
	rootCmd.PersistentFlags().StringP("env", "e", "", "Environment: [staging] or [production]")
	rootCmd.PersistentFlags().String("backend", "", "Override the session exchange backend URL")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("trace", false, "Print trace messages to stderr")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		lib.Writeln(err.Error())
	}
}

func loadSettings(cmd *cobra.Command) (*lib.Settings, error) {
	dir, _ := cmd.Flags().GetString("config")
	v, err := lib.NewViper(dir)
	if err != nil {
		return nil, err
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}
	return lib.LoadSettings(v)
}

func newBootstrapper(cmd *cobra.Command) (*lib.Settings, *lib.Bootstrapper, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	b, err := lib.NewBootstrapperFromSettings(settings, lib.NewLogger(settings.LogLevel))
	if err != nil {
		return nil, nil, err
	}
	return settings, b, nil
}
