package main

import "github.com/emiliopalmerini/mtrack/internal/cli"

func main() {
	cli.Execute()
}
