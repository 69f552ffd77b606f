package main

import "github.com/strandmesh/strand/cmd"

func main() {
	cmd.Execute()
}
