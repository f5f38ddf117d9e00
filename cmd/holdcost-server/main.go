package main

import (
	"fmt"
	"os"

	"holdcost/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		application.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
