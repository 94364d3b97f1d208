package main

import (
	"os"

	servecmder "github.com/quillardco/sensei/cmd/sensei/serve"
)

func main() {
	cmd := servecmder.NewServeCmd()
	cmd.Use = "senseiapi"
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .sensei/ config directory")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
