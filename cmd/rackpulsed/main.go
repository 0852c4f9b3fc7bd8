package main

import (
	"log"

	"github.com/rackpulse/rackpulse/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatal(err)
	}
}
