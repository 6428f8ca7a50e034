package main

import "github.com/karbar/resumeforge/cmd"

func main() {
	cmd.Execute()
}
