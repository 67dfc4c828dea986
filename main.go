package main

import "github.com/ygelfand/animctl/cmd"

func main() {
	cmd.Execute()
}
