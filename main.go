package main

import "github.com/camden-git/congoaddressmapper/cmd"

func main() {
	cmd.Execute()
}
