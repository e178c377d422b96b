package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/dt-pm-tools/adfmd/cmd"
)

func main() {
	cmd.Execute()
}
