package main

import "github.com/docentkit/docent/internal/cli"

func main() {
	cli.Execute()
}
