package main

import "github.com/KaramelBytes/nbastats-cli/cmd"

func main() {
	cmd.Execute()
}
