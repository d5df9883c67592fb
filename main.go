package main

import "github.com/KaramelBytes/crashpair/cmd"

func main() {
	cmd.Execute()
}
