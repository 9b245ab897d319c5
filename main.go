package main

import "pal-save-edit/cmd"

func main() {
	cmd.Execute()
}
