package main

import (
	"errors"
	"strings"

	"github.com/openstandia/dc-dashboard/lib"
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure <environment name>",
	Short: "Save the identity provider settings of an environment",
	Long: `Save the hosted UI base URL, client ID and redirect URL of an environment
in the configuration file.`,
	Args: cobra.ExactArgs(1),
	Run:  configure,
}

func init() {
	configureCmd.Flags().String("auth-base", "", "Base URL of the hosted UI (https://<domain>.auth.<region>.amazoncognito.com/)")
	configureCmd.Flags().String("client-id", "", "App client ID registered in the user pool")
	configureCmd.Flags().String("redirect-url", "", "URL the hosted UI redirects to after login")
	configureCmd.Flags().Bool("default", false, "Make this the default environment")
	rootCmd.AddCommand(configureCmd)
}

func configure(cmd *cobra.Command, args []string) {
	authBase, _ := cmd.Flags().GetString("auth-base")
	clientID, _ := cmd.Flags().GetString("client-id")
	redirectURL, _ := cmd.Flags().GetString("redirect-url")
	activate, _ := cmd.Flags().GetBool("default")
	dir, _ := cmd.Flags().GetString("config")
	if authBase == "" {
		lib.Exit(errors.New("the hosted UI base URL is required"))
	}

	env := &lib.Environment{
		Name:        strings.ToLower(args[0]),
		AuthBase:    authBase,
		ClientID:    clientID,
		RedirectURL: redirectURL,
	}
	path, err := lib.SaveEnvironment(dir, env, activate)
	if err != nil {
		lib.Exit(err)
	}
	lib.Writeln("Saved %s for %s", path, env.Name)
}
