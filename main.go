package main

import "github.com/ormgen/ormgen/cmd"

func main() {
	cmd.Execute()
}
