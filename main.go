package main

import "github.com/eliotovele/better-lucid/cmd"

func main() {
	cmd.Execute()
}
