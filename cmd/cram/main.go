package main

import (
	"os"

	"github.com/crambrain/cram/internal/client/cli"
)

func main() {
	os.Exit(cli.Execute())
}
