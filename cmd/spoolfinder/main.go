package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/spoolfinder/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := execute(ctx, &cliState{}, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, app.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "spoolfinder: %v\n", err)
		}
		return 1
	}
	return 0
}

// execute runs the command tree with args. The environment is closed on
// every path, including command errors.
func execute(ctx context.Context, st *cliState, args []string, stdout, stderr io.Writer) error {
	defer st.close()

	root := rootCommand(st)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}
