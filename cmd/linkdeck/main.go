package main

import "github.com/MrSnakeDoc/linkdeck/internal/cli"

func main() {
	cli.Execute()
}
