package main

import "github.com/conceptmap/conceptmap/cmd"

func main() {
	cmd.Execute()
}
