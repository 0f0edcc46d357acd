package main

import "github.com/kozaktomas/image-cluster/cmd"

func main() {
	cmd.Execute()
}
