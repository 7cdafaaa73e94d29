package main

import "github.com/OpenTraceLab/aldnet/cmd/ald/cmd"

func main() {
	cmd.Execute()
}
