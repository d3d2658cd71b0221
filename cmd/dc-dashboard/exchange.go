package main

import (
	"context"
	"fmt"

	"github.com/openstandia/dc-dashboard/lib"
	"github.com/spf13/cobra"
)

var exchangeCmd = &cobra.Command{
	Use:   "exchange",
	Short: "Exchange an authorization code and print the outcome",
	Long: `Exchange an authorization code with the backend, the same way a dashboard
load does, and print where the page would end up.`,
	Run: exchange,
}

func init() {
	exchangeCmd.Flags().StringP("code", "c", "", "Authorization code from the login redirect")
	exchangeCmd.Flags().BoolP("json", "j", false, "Print the outcome as JSON")
	rootCmd.AddCommand(exchangeCmd)
}

func exchange(cmd *cobra.Command, args []string) {
	code, _ := cmd.Flags().GetString("code")
	asJson, _ := cmd.Flags().GetBool("json")
	_, b, err := newBootstrapper(cmd)
	if err != nil {
		lib.Exit(err)
	}
	lib.Exit(output(asJson)(b.Run(context.Background(), code)))
}

func output(json bool) func(lib.Outcome) error {
	return func(outcome lib.Outcome) error {
		if json {
			js, err := outcome.JSON()
			if err == nil {
				fmt.Println(js)
			}
			return err
		}
		switch outcome.Kind {
		case lib.Redirect:
			fmt.Printf("redirect: %s\n", outcome.Location)
		case lib.ErrorShown:
			status := "-"
			if outcome.Status != nil {
				status = fmt.Sprint(*outcome.Status)
			}
			fmt.Printf("error: %s %s\n", status, outcome.Message)
		case lib.Rendered:
			fmt.Printf("email:    %s\nendpoint: %s\nusername: %s\n",
				outcome.Session.Email, outcome.Session.Endpoint, outcome.Session.Username)
		}
		return nil
	}
}
