package main

import (
	"os"

	"github.com/userservice/userservice/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
