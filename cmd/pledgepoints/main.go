package main

import "github.com/deltap/pledgepoints/internal/cli"

func main() {
	cli.Execute()
}
