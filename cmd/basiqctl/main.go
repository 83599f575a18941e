package main

import "github.com/Dan9191/bank-onboarding/internal/commands"

func main() {
	commands.Execute()
}
