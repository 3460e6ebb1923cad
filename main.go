package main

import "github.com/killallgit/podcast-runtime/cmd"

func main() {
	cmd.Execute()
}
