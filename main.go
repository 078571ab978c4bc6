package main

import "toolchest/internal/cli"

func main() {
	cli.Execute()
}
