package main

import (
	"stonehub/cmd"
)

func main() {
	cmd.Execute()
}
