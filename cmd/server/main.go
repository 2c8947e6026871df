package main

import "afford-tracker/internal/cli"

func main() {
	cli.Execute()
}
