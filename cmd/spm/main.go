package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"stackline.dev/spm/cmd/spm/cmd"
)

func main() {
	ctx, cancelFn := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancelFn()

	c, err := cmd.RootCmd(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if err := c.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
