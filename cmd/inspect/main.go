package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/scoped/handle"
	"github.com/wippyai/scoped/provider"
)

func main() {
	var (
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		handle.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := demo(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// demo walks through the handle lifecycle against in-memory buffers and
// prints every event as it happens.
func demo() error {
	ctx := context.Background()
	bufs := provider.NewBuffer()

	scope := handle.NewScope(withPrinter())
	defer scope.Close()

	foo, err := scope.Open(ctx, bufs, "foo")
	if err != nil {
		return err
	}
	bar, err := scope.Open(ctx, bufs, "bar")
	if err != nil {
		return err
	}

	if _, err := foo.Write([]byte("written through foo's handle")); err != nil {
		return err
	}

	// Moving foo over bar releases bar's resource first; foo's handle is
	// empty afterwards.
	if err := foo.MoveTo(bar); err != nil {
		return err
	}
	if _, err := foo.Write([]byte("this fails")); err != nil {
		fmt.Printf("write after move: %v\n", err)
	}

	fmt.Printf("scope owns %d resource(s); deferred close releases them\n", scope.Len())
	return nil
}

type printerObserver struct{}

func (printerObserver) OnHandleEvent(e handle.Event) {
	var verb string
	switch e.Type {
	case handle.EventOpened:
		verb = "opened"
	case handle.EventTransferred:
		verb = "transferred"
	case handle.EventReleased:
		verb = "released"
	}
	fmt.Printf("%-11s %s (%s)\n", verb, e.Name, e.ID[:8])
}

// withPrinter attaches an observer that prints each lifecycle event.
func withPrinter() handle.Option {
	return handle.WithObserver(printerObserver{})
}
