package main

import (
	"encoding/json"
	"fmt"

	"github.com/openstandia/dc-dashboard/lib"
	"github.com/spf13/cobra"
)

var urlsCmd = &cobra.Command{
	Use:   "urls",
	Short: "Print the login and logout URLs",
	Long:  `Print the hosted UI login and logout URLs of the selected environment.`,
	Run:   printURLs,
}

func init() {
	urlsCmd.Flags().BoolP("json", "j", false, "Print the URLs as JSON")
	rootCmd.AddCommand(urlsCmd)
}

func printURLs(cmd *cobra.Command, args []string) {
	asJson, _ := cmd.Flags().GetBool("json")
	_, b, err := newBootstrapper(cmd)
	if err != nil {
		lib.Exit(err)
	}
	urls := b.URLs()
	if asJson {
		bs, err := json.Marshal(map[string]string{"login": urls.Login, "logout": urls.Logout})
		if err != nil {
			lib.Exit(err)
		}
		fmt.Println(string(bs))
		return
	}
	fmt.Printf("login:  %s\nlogout: %s\n", urls.Login, urls.Logout)
}
