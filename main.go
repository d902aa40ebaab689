package main

import "github.com/ltrel/liasp/cmd"

func main() {
	cmd.Execute()
}
