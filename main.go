package main

import "github.com/KaramelBytes/spendlens/cmd"

func main() {
	cmd.Execute()
}
