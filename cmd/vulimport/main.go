package main

import "github.com/aalvaropc/vulimport/internal/cli"

func main() {
	cli.Execute()
}
