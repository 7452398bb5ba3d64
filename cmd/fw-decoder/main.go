package main

import "github.com/quara-dev/fw-decoder/cmd/fw-decoder/cmd"

func main() {
	cmd.Execute()
}
