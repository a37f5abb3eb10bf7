package main

import "github.com/mselser95/protondb-tags/cmd"

func main() {
	cmd.Execute()
}
