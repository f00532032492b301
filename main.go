package main

import "github.com/KaramelBytes/tabload/cmd"

func main() {
	cmd.Execute()
}
