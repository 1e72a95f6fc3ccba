package config

import (
	"strconv"

	"github.com/ryan-gang/kindle-sendto/internal/util"
)

// CreateConfig asks the user for the settings needed to mail a device.
func CreateConfig() *Config {
	util.CyanBold.Println("CONFIGURE KINDLE-SEND")

	configuration := NewConfig()
	util.Cyan.Printf("Email of your device and press enter (eg. ryan@kindle.com) : ")
	configuration.Receiver = util.ScanlineTrim()
	util.Cyan.Printf("Email that'll be used to send documents to device (eg. yourname@gmail.com) : ")
	configuration.Sender = util.ScanlineTrim()

	if !isGmail(configuration.Sender) {
		util.Cyan.Println("Sender email is different then Gmail, " +
			"can you help with SMTP server address and SMTP port for your email provider\n" +
			"Just search SMTP settings for <your email domain>.com on internet")

		util.Cyan.Printf("Enter SMTP Server Address (eg. smtp.gmail.com) : ")
		configuration.Server = util.ScanlineTrim()
		configuration.Port = askInt("Enter SMTP port (usually 587 or 465) : ", 0)
	}

	util.Cyan.Printf("Enter password for Sender %s : ", configuration.Sender)
	configuration.Password = util.ScanlineTrim()

	util.Cyan.Printf("File path to store converted documents on your computer (empty is ok) : ")
	configuration.StorePath = util.ScanlineTrim()

	UpdateServerSettings(configuration)
	return configuration
}

// UpdateServerSettings prompts for the HTTP server and install validation
// settings, keeping current values on empty input.
func UpdateServerSettings(c *Config) {
	util.CyanBold.Println("\nSERVER CONFIGURATION")
	util.Cyan.Printf("Listen address (current: %s) : ", c.ServerAddr)
	if addr := util.ScanlineTrim(); addr != "" {
		c.ServerAddr = addr
	}

	util.Cyan.Printf("Allow send to device over HTTP? (y/n, current: %t) : ", c.AllowSendTo)
	if answer := util.ScanlineTrim(); answer != "" {
		c.AllowSendTo = isYes(answer)
	}

	util.Cyan.Printf("Enable install validation? (y/n, current: %t) : ", c.EnableValidation)
	if answer := util.ScanlineTrim(); answer != "" {
		c.EnableValidation = isYes(answer)
	}
	if c.EnableValidation {
		util.Cyan.Printf("Validation API key (current: %s) : ", mask(c.ValidationAPIKey))
		if key := util.ScanlineTrim(); key != "" {
			c.ValidationAPIKey = key
		}
	}
}

func askInt(prompt string, current int) int {
	for {
		util.Cyan.Print(prompt)
		s := util.ScanlineTrim()
		if s == "" && current > 0 {
			return current
		}
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			util.Red.Println("Entered number is either invalid or not a positive integer, please try again")
			continue
		}
		return v
	}
}

func isYes(s string) bool {
	return s == "y" || s == "Y" || s == "yes"
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + "****" + secret[len(secret)-2:]
}
