package main

import "github.com/mm15146-Mahad/summit/cmd"

func main() {
	cmd.Execute()
}
