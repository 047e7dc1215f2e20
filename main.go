package main

import "github.com/RyanBlaney/sonido-theory/cmd"

func main() {
	cmd.Execute()
}
