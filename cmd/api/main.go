package main

import (
	"log"

	"linkbio/cmd/api/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
