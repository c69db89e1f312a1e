package main

import (
	"log"
	"os"

	"github.com/kitchenops/kitchenreport/cmd"
)

func main() {
	// progress and error lines go to stdout, the bar renders on stderr
	log.SetOutput(os.Stdout)
	cmd.Execute()
}
