package main

import (
	"fmt"

	"github.com/openstandia/dc-dashboard/lib"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the login page in a browser",
	Long: `Open the hosted UI login page of the selected environment in a browser.
With --local the locally served dashboard is opened instead.`,
	Run: open,
}

func init() {
	openCmd.Flags().Bool("local", false, "Open the dashboard served by 'serve'")
	openCmd.Flags().StringP("listen", "l", "", "Address of the local dashboard (default 127.0.0.1:8080)")
	rootCmd.AddCommand(openCmd)
}

func open(cmd *cobra.Command, args []string) {
	local, _ := cmd.Flags().GetBool("local")
	settings, b, err := newBootstrapper(cmd)
	if err != nil {
		lib.Exit(err)
	}
	url := b.URLs().Login
	if local {
		url = fmt.Sprintf("http://%s/", settings.Listen)
	}
	lib.Traceln("Opening %s", url)
	if err := browser.OpenURL(url); err != nil {
		lib.Exit(fmt.Errorf("cannot open browser, visit %s: %w", url, err))
	}
}
