package main

import "github.com/ayusman/handtrack/internal/cli"

func main() {
	cli.Execute()
}
