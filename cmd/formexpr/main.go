package main

import "github.com/cwbudde/formexpr/cmd/formexpr/cmd"

func main() {
	cmd.Execute()
}
