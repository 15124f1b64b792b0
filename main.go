package main

import "github.com/RyanBlaney/sample-organizer/cmd"

func main() {
	cmd.Execute()
}
