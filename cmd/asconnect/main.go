package main

import "github.com/dvc94ch/asconnect/internal/cli"

func main() {
	cli.Execute()
}
