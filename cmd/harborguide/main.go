package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/harborguide/internal/app"
	"github.com/alexanderramin/harborguide/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background(), app.Build, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
