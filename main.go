package main

import "github.com/acfortier/garage-backoffice/cmd"

func main() {
	cmd.Execute()
}
