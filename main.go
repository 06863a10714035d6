package main

import "github.com/killallgit/scrollback/cmd"

func main() {
	cmd.Execute()
}
