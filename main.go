package main

import (
	"os"

	"github.com/cylin-tw/line-daily-push/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
