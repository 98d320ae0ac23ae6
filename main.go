package main

import "github.com/skybrowse/skyview/cmd"

func main() {
	cmd.Execute()
}
