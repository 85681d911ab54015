package main

import (
	"log"

	"github.com/resfit/resfit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
