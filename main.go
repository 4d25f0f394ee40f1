package main

import "github.com/kozaktomas/photo-analyzer/cmd"

func main() {
	cmd.Execute()
}
