package main

import "github.com/fekuna/omnipos-backoffice/internal/cli"

func main() {
	cli.Execute()
}
