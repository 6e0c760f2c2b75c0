package main

import "github.com/symplora/leave-management/cmd"

func main() {
	cmd.Execute()
}
