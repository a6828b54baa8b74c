package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"go.cubebuild.tech/sortmerge/reducejob"
	"go.cubebuild.tech/sortmerge/reducers"
	"go.cubebuild.tech/sortmerge/rows"
	"go.ytsaurus.tech/library/go/core/log"
	"go.ytsaurus.tech/library/go/core/metrics/prometheus"
	"go.ytsaurus.tech/yt/go/yson"
)

var reduceCmd = &cobra.Command{
	Use:   "reduce",
	Short: "Group sorted rows by key and reduce every group",
	Args:  cobra.NoArgs,
	Run:   wrapRun(doReduce),
}

var (
	flagReducer    string
	flagParams     string
	flagInput      string
	flagOutput     string
	flagFormat     string
	flagMetricsOut string
)

func init() {
	reduceCmd.Flags().StringVar(&flagReducer, "reducer", "", "reducer name, see reducers command")
	reduceCmd.Flags().StringVar(&flagParams, "params", "", "reducer parameters as yson map")
	reduceCmd.Flags().StringVar(&flagInput, "input", "", "input file, stdin if empty")
	reduceCmd.Flags().StringVar(&flagOutput, "output", "", "output file, stdout if empty")
	reduceCmd.Flags().StringVar(&flagFormat, "format", "text", "output format: text, binary or pretty")
	reduceCmd.Flags().StringVar(&flagMetricsOut, "metrics-out", "", "file to dump job metrics in prometheus format")
	if err := reduceCmd.MarkFlagRequired("reducer"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(reduceCmd)
}

func newReducer() (reducers.Reducer, error) {
	if flagParams == "" {
		return reducers.New(flagReducer)
	}
	return reducers.NewConfigured(flagReducer, yson.RawValue(flagParams))
}

func openInput() (io.ReadCloser, error) {
	if flagInput == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(flagInput)
}

func createOutput() (io.WriteCloser, error) {
	if flagOutput == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(flagOutput)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func doReduce() (err error) {
	l, stop := newLogger("reduce")
	defer stop()

	r, err := newReducer()
	if err != nil {
		return err
	}

	format, err := rows.ParseFormat(flagFormat)
	if err != nil {
		return err
	}

	in, err := openInput()
	if err != nil {
		return xerrors.Errorf("open input: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := createOutput()
	if err != nil {
		return xerrors.Errorf("create output: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = xerrors.Errorf("close output: %w", closeErr)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	registry := prometheus.NewRegistry(prometheus.NewRegistryOpts().SetTags(map[string]string{
		"reducer": reducers.Name(r),
	}))

	bw := bufio.NewWriter(out)
	w := rows.NewWriter(bw, format)

	job := reducejob.Job{
		Reducer: r,
		Logger:  l,
		Metrics: registry,
	}

	l.Info("Reduce started", log.String("reducer", reducers.Name(r)), log.String("input", flagInput))
	stats, err := job.Do(ctx, rows.NewReader(bufio.NewReader(in)), w)
	if err != nil {
		return err
	}

	if err = w.Close(); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return xerrors.Errorf("flush output: %w", err)
	}

	l.Info("Reduce finished",
		log.Int64("rows_read", stats.RowsRead),
		log.Int64("groups_written", stats.GroupsWritten),
		log.Int64("rows_written", w.Rows()))

	if flagMetricsOut != "" {
		if err = dumpMetrics(ctx, registry, flagMetricsOut); err != nil {
			return err
		}
	}
	return nil
}

func dumpMetrics(ctx context.Context, registry *prometheus.Registry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return xerrors.Errorf("create metrics file: %w", err)
	}

	if _, err = registry.Stream(ctx, f); err != nil {
		_ = f.Close()
		return xerrors.Errorf("write metrics: %w", err)
	}
	return f.Close()
}
