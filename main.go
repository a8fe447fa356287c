package main

import (
	"os"

	"github.com/pstuifzand/tuo-notes/internal/commands"
)

func main() {
	os.Exit(commands.Execute())
}
