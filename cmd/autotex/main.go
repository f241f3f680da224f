package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"autotex/internal/cli"
)

// main parses the invocation before any document work starts and exits
// with the semantic code of the run. An interrupt cancels the session's
// context; a compile already running finishes first.
func main() {
	inv, err := cli.ParseInvocation(os.Args[1:])
	if err != nil {
		var invErr *cli.InvocationError
		if errors.As(err, &invErr) {
			fmt.Fprintln(os.Stderr, "error:", invErr.Message)
			fmt.Fprint(os.Stderr, cli.Usage())
			os.Exit(invErr.ExitCode)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.ExitInternalError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	result, execErr := cli.Execute(ctx, inv)
	stop()
	if execErr != nil {
		fmt.Fprintln(os.Stderr, "error:", execErr)
	}
	os.Exit(result.ExitCode)
}
