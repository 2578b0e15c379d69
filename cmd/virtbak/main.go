package main

import (
	"os"

	"virtbak/cmd/virtbak/topics"
)

func main() {
	if err := topics.Execute(); err != nil {
		os.Exit(1)
	}
}
