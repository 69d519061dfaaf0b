package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/kxue43/inikit/cli"
	"github.com/kxue43/inikit/resolve"
	"github.com/kxue43/inikit/runner"
	"github.com/kxue43/inikit/terminal"
)

const usageHint = "Run inikit --help for usage."

func main() {
	var exitCode int

	defer func() {
		os.Exit(exitCode)
	}()

	console := terminal.NewConsole(os.Stderr, false)

	defer func() {
		if r := recover(); r != nil {
			console.Error(fmt.Sprintf("An unexpected error occurred: %v", r))

			exitCode = 1
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp()
	if err != nil {
		exitCode = report(ctx, console, err)

		return
	}

	exitCode = report(ctx, console, cli.Execute(ctx, os.Args[1:], app))
}

// report prints the final status line for err and returns the exit code.
// Whatever failed after an interrupt or termination signal counts as a
// cancellation.
func report(ctx context.Context, console *terminal.Console, err error) int {
	var (
		exit     *cli.ExitError
		invalid  *cli.ValidationError
		input    *resolve.InputError
		parse    *kong.ParseError
		stepFail *runner.StepError
	)

	switch {
	case err == nil:
		return 0
	case errors.As(err, &exit):
		return exit.Code
	case errors.Is(err, resolve.ErrCancelled), errors.Is(err, context.Canceled), ctx.Err() != nil:
		console.Cancel("Operation cancelled.")

		return 0
	case errors.As(err, &invalid):
		for _, v := range invalid.Violations {
			console.Error(v.Error())
		}

		return 1
	case errors.As(err, &input):
		console.Error(input.Msg)
		console.Info(usageHint)

		return 1
	case errors.As(err, &parse):
		console.Error(parse.Error())
		console.Info(usageHint)

		return 1
	case errors.As(err, &stepFail):
		console.Error("An error occurred: " + stepFail.Error())

		return 1
	default:
		console.Error(err.Error())

		return 1
	}
}
