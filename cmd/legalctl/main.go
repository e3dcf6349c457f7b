package main

import "github.com/Rrens/legal-assistant/cmd/legalctl/cmd"

func main() {
	cmd.Execute()
}
