package main

import (
	"os"

	"github.com/geledek/Youtube-Subtitle-Downloader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
