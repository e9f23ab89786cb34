package main

import "github.com/arloliu/flacarray/cmd/flacarray/cmd"

func main() {
	cmd.Execute()
}
