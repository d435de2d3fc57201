package main

import "github.com/mcoot/dicestake/internal/cli"

func main() {
	cli.Execute()
}
