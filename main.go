package main

import (
	"github.com/joho/godotenv"

	"github.com/ryan-gang/kindle-sendto/cmd"
)

func main() {
	// a missing .env is fine, the config file and real env still apply
	_ = godotenv.Load()
	cmd.Execute()
}
