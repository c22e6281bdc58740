package main

import "github.com/chriserin/team/cmd"

func main() {
	cmd.Execute()
}
