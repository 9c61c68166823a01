package main

import (
	"log"

	"photovault/cmd/pv/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatal(err)
	}
}
