package main

import "dupmover/cmd"

func main() {
	cmd.Execute()
}
