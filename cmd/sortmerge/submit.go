package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"go.cubebuild.tech/sortmerge/sparkjob"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit build step to spark and wait for it",
	Args:  cobra.NoArgs,
	Run:   wrapRun(doSubmit),
}

var (
	flagClassName string
	flagJars      string
	flagJobParams []string
)

func init() {
	submitCmd.Flags().StringVar(&flagClassName, "class", "", "class run by spark entry")
	submitCmd.Flags().StringVar(&flagJars, "jars", "", "comma separated jars, job jar if empty")
	submitCmd.Flags().StringArrayVar(&flagJobParams, "param", nil, "job parameter as key=value, may be repeated")
	if err := submitCmd.MarkFlagRequired("class"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(submitCmd)
}

func newExecutable(className, jars string, params []string) (*sparkjob.Executable, error) {
	var e sparkjob.Executable
	e.SetClassName(className)
	if jars != "" {
		e.SetJars(jars)
	}

	for _, param := range params {
		key, value, ok := strings.Cut(param, "=")
		if !ok || key == "" {
			return nil, xerrors.Errorf("invalid job parameter %q, expected key=value", param)
		}
		e.SetParam(key, value)
	}
	return &e, nil
}

func doSubmit() error {
	if flagConfigPath == "" {
		return xerrors.New("--config is required")
	}

	config, err := sparkjob.LoadConfig(flagConfigPath)
	if err != nil {
		return err
	}

	l, stop := newLogger("submit")
	defer stop()

	e, err := newExecutable(flagClassName, flagJars, flagJobParams)
	if err != nil {
		return err
	}
	e.Logger = l

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, err := e.Run(ctx, config)
	if result != nil {
		printResult(rootCmd.OutOrStdout(), result)
	}
	return err
}

// printResult writes job info sorted by key, followed by the job state.
func printResult(w io.Writer, result *sparkjob.Result) {
	for _, key := range slices.Sorted(maps.Keys(result.Info)) {
		_, _ = fmt.Fprintf(w, "%s: %s\n", key, result.Info[key])
	}
	_, _ = fmt.Fprintf(w, "state: %s\n", result.State)
}
