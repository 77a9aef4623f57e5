package main

import "github.com/felixgeelhaar/echomind/cmd/echomind/cli"

func main() {
	cli.Execute()
}
