package main

import "focusos/internal/cli"

func main() {
	cli.Execute()
}
