package main

import "github.com/rickcollette/blockidx/cmd/blockidx/cmd"

func main() {
	cmd.Execute()
}
