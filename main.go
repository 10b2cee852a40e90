package main

import "github.com/theirongolddev/meshroi/cmd"

func main() {
	cmd.Execute()
}
