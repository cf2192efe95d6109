// Command n4 is a cobra-based host for the nanoForth core (package n4): a
// `run` subcommand that compiles one or more Forth source files before
// dropping into the interactive outer loop, and a `repl` subcommand that
// skips straight to stdin/stdout, mirroring gothird's main.go flag set
// (--trace/--dump/--timeout) reshaped onto cobra/pflag the way
// oisee-z80-optimizer's cmd/z80opt/main.go structures its subcommands.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	n4 "github.com/wilyJ80/nanoforth"
	"github.com/wilyJ80/nanoforth/internal/fileinput"
	"github.com/wilyJ80/nanoforth/internal/hostio"
	"github.com/wilyJ80/nanoforth/internal/hostisr"
	"github.com/wilyJ80/nanoforth/internal/logio"
	"github.com/wilyJ80/nanoforth/internal/nvram"
	"github.com/wilyJ80/nanoforth/internal/preload"
)

var (
	traceFlag   bool
	dumpFlag    bool
	timeoutFlag time.Duration
	storePath   string
	storeSize   int
	autorunFlag bool
	dicSize     uint16
	stkSize     uint16
	tibSize     uint16
	caseInsens  bool
	echoFlag    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "n4",
		Short: "nanoForth -- a minimal Forth-family environment for constrained targets",
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&traceFlag, "trace", false, "enable the inner interpreter's single-step trace")
	flags.BoolVar(&dumpFlag, "dump", false, "print an arena dump after the run")
	flags.DurationVar(&timeoutFlag, "timeout", 0, "stop the VM after the given duration")
	flags.StringVar(&storePath, "store", "", "file backing SAV/SEX/LD (defaults to an in-memory store)")
	flags.IntVar(&storeSize, "store-size", 4096, "nonvolatile store capacity in bytes")
	flags.BoolVar(&autorunFlag, "autorun", false, "save with the autorun signature when BYE runs")
	flags.Uint16Var(&dicSize, "dic-size", n4.DefaultDicSz, "dictionary region size in bytes")
	flags.Uint16Var(&stkSize, "stk-size", n4.DefaultStkSz, "combined stack region size in bytes")
	flags.Uint16Var(&tibSize, "tib-size", n4.DefaultTibSz, "terminal input buffer size in bytes")
	flags.BoolVar(&caseInsens, "case-insensitive", false, "fold dictionary name lookups to uppercase")
	flags.BoolVar(&echoFlag, "echo", false, "echo KEY reads back to output (for a raw serial-style stream)")

	runCmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "compile one or more Forth source files, then drop into the interactive outer loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVM(args)
		},
	}

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "interactive outer loop over stdin/stdout only",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVM(nil)
		},
	}

	rootCmd.AddCommand(runCmd, replCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runVM(scriptPaths []string) error {
	logger := &logio.Logger{}
	logger.SetOutput(os.Stderr)
	defer logger.Close()

	ctx := context.Background()
	var cancel context.CancelFunc
	if timeoutFlag != 0 {
		ctx, cancel = context.WithTimeout(ctx, timeoutFlag)
		defer cancel()
	}

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
	}()

	var scriptReaders []io.Reader
	for _, path := range scriptPaths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		closers = append(closers, f)
		scriptReaders = append(scriptReaders, f)
	}

	isr := hostisr.New(ctx)
	closers = append(closers, isr)

	var store n4.Store
	if storePath != "" {
		f, err := nvram.OpenFile(storePath, storeSize)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		closers = append(closers, f)
		store = f
	} else {
		store = nvram.NewMemory(storeSize)
	}

	gpio := hostio.NewGPIO()
	gpio.Logf = logger.Leveledf("GPIO")

	var in fileinput.Input
	in.Queue = append(in.Queue, &namedString{name: "<preload>", text: preload.Source})
	in.Queue = append(in.Queue, scriptReaders...)
	in.Queue = append(in.Queue, os.Stdin)

	opts := []n4.Option{
		n4.WithArenaSizes(dicSize, stkSize, tibSize),
		n4.WithInput(fileinput.AsReader(&in)),
		n4.WithOutput(os.Stdout),
		n4.WithCaseSensitive(caseInsens),
		n4.WithTrace(traceFlag),
		n4.WithEcho(echoFlag),
		n4.WithAutorunOnExit(autorunFlag),
		n4.WithClock(hostio.NewClock()),
		n4.WithGPIO(gpio),
		n4.WithInterrupts(isr),
		n4.WithStore(store),
	}
	if traceFlag {
		opts = append(opts, n4.WithLogf(logger.Leveledf("TRACE")))
	}

	vm := n4.New(opts...)
	defer vm.Close()

	err := vm.Run(ctx)
	if dumpFlag {
		vm.Dump()
	}
	logger.ErrorIf(err)
	return err
}

// namedString is a named in-memory script source, e.g. the embedded
// preload, wired through fileinput.Input the same way a named os.File is.
type namedString struct {
	name string
	text string
}

func (ns namedString) Name() string { return ns.name }

func (ns *namedString) Read(p []byte) (int, error) {
	if len(ns.text) == 0 {
		return 0, io.EOF
	}
	n := copy(p, ns.text)
	ns.text = ns.text[n:]
	return n, nil
}
