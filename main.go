package main

import "github.com/jmiller/grimoire/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
