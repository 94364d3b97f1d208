package main

import (
	"os"

	senseicmder "github.com/quillardco/sensei/cmd/sensei"
)

func main() {
	cmd := senseicmder.NewSenseiCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
