package main

import "github.com/loookla/readme-generator-parth/cmd"

func main() {
	cmd.Execute()
}
