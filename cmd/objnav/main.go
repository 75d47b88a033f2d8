package main

import "github.com/adrianmross/objnav/internal/cmd"

func main() {
	cmd.Execute()
}
