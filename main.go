package main

import "github.com/letapeapp/race-engine-go/cmd"

func main() {
	cmd.Execute()
}
