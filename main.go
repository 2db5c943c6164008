package main

import "github.com/jcdickinson/noogle/cmd"

func main() {
	cmd.Execute()
}
