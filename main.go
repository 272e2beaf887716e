package main

import "github.com/frahmantamala/incident-management/cmd"

func main() {
	cmd.Execute()
}
