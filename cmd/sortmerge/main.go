package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"go.ytsaurus.tech/library/go/core/buildinfo"
	"go.ytsaurus.tech/library/go/core/log"
	logzap "go.ytsaurus.tech/library/go/core/log/zap"
	"go.ytsaurus.tech/yt/go/ytlog"
)

var (
	flagLogToStderr bool
	flagVerbose     bool
	flagLogsDir     string
	flagConfigPath  string
)

var rootCmd = &cobra.Command{
	Use:           "sortmerge",
	Short:         "Reduce sorted row streams and submit cube build jobs",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogsDir, "log-dir", ".", "path to the log directory")
	rootCmd.PersistentFlags().BoolVar(&flagLogToStderr, "log-to-stderr", false, "write logs to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "write debug records to stderr log")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to the yson or yaml config")
}

// newLogger returns logger and function flushing it.
func newLogger(name string) (*logzap.Logger, func()) {
	if flagLogToStderr {
		return newStderrLogger(name), func() {}
	}

	l, stop, err := ytlog.NewSelfrotate(filepath.Join(flagLogsDir, name+".log"))
	if err != nil {
		panic(err)
	}

	l.Info("Logging started", log.String("command", name), log.String("version", buildinfo.Info.ProgramVersion))
	return l, stop
}

func wrapRun(run func() error) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := run(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
			os.Exit(1)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
