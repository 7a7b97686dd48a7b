package main

import "github.com/2beens/workoutlog/cmd/workoutctl/commands"

func main() {
	commands.Execute()
}
