package main

import "github.com/emrgen/linkset/cmd"

func main() {
	cmd.Execute()
}
