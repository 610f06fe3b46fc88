package main

import "github.com/iksnae/dice-relay/cmd"

func main() {
	cmd.Execute()
}
