package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/vc3-project/vc3-info-service/cmd/infoctl/cmd"
	"github.com/vc3-project/vc3-info-service/pkg/clierror"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var ce *clierror.CLIError
		if errors.As(err, &ce) {
			clierror.PrintError(ce, cmd.OutputFormat())
			os.Exit(ce.ExitCode)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(clierror.ExitGeneral)
	}
}
