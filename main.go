package main

import "github.com/KrisshChawla/dgsem/cmd"

func main() {
	cmd.Execute()
}
