package main

import "github.com/rebeliceyang/lazydb/cmd/lazydb/cmd"

func main() {
	cmd.Execute()
}
