package main

import (
	_ "github.com/joho/godotenv/autoload"

	"xmlpad/cmd/xmlpad-cli/cmd"
)

func main() {
	cmd.Execute()
}
