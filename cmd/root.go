package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ryan-gang/kindle-sendto/internal/config"
	"github.com/ryan-gang/kindle-sendto/internal/util"
)

func init() {
	configPath, err := config.DefaultConfigPath()
	if err != nil {
		util.Red.Println("Error setting default config path: ", err)
		os.Exit(1)
	}
	rootCmd.PersistentFlags().StringP("config", "c", configPath, "Path to config file")
}

var rootCmd = &cobra.Command{
	Use:   "kindle-send",
	Short: "Send documents and webpages to your ereader",
	Long: `kindle-send mails e-books to your ereader. It can run as an HTTP service
that accepts uploads and forwards them to a device address, or send local
files and webpages once from the command line.

Webpages are downloaded, converted to epub and then sent. Uploads are
checked against the configured size limit and file types before anything
is written to disk.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
