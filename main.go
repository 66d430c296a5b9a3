package main

import "github.com/budgie-app/budgie/cmd"

func main() {
	cmd.Execute()
}
