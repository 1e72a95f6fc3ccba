package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ryan-gang/kindle-sendto/internal/config"
	"github.com/ryan-gang/kindle-sendto/internal/util"
)

func init() {
	rootCmd.AddCommand(configureCmd)
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure kindle-send settings",
	Long: `Configure kindle-send settings including email configuration,
the HTTP server and install validation.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		var cfg *config.Config
		if !config.Exists(configPath) {
			util.CyanBold.Println("Creating new configuration...")
			cfg = config.CreateConfig()
		} else {
			util.CyanBold.Println("Updating existing configuration...")
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				util.LogError(util.ConfigError, "loading configuration", err)
				os.Exit(1)
			}

			util.Cyan.Println("\nCurrent settings:")
			util.Cyan.Printf("Device email: %s\n", cfg.Receiver)
			util.Cyan.Printf("Sender email: %s\n", cfg.Sender)
			util.Cyan.Printf("Listen address: %s\n", cfg.ServerAddr)
			util.Cyan.Printf("Send to device over HTTP: %t\n", cfg.AllowSendTo)
			util.Cyan.Printf("Install validation: %t\n", cfg.EnableValidation)

			util.CyanBold.Println("\nUpdate server configuration? (y/n):")
			if response := util.ScanlineTrim(); response == "y" || response == "Y" || response == "yes" {
				config.UpdateServerSettings(cfg)
			}
		}

		if err := cfg.Validate(); err != nil {
			util.LogError(util.ConfigError, "validating configuration", err)
			os.Exit(1)
		}
		if err := config.Save(cfg, configPath); err != nil {
			util.LogError(util.ConfigError, "saving configuration", err)
			os.Exit(1)
		}
		util.Green.Printf("Configuration saved to %s\n", configPath)

		util.CyanBold.Println("\nNext steps:")
		util.Cyan.Println("- Run 'kindle-send serve' to accept uploads over HTTP")
		util.Cyan.Println("- Run 'kindle-send send <files/urls>' for one-time sending")
	},
}
