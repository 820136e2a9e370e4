package main

import "github.com/dori/slowly/internal/cli"

var version = "dev"

func main() {
	cli.Execute(version)
}
