// Command forcealign computes word timestamps for a corpus of recited verses.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ieee0824/forcealign/config"
	"github.com/ieee0824/forcealign/runner"
)

type app struct {
	v       *viper.Viper
	cfg     *config.Config
	cfgFile string
	envFile string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process status. An interrupted run
// has already persisted its progress and exits cleanly.
func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, runner.ErrInterrupted):
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:           "forcealign",
		Short:         "Word-level timestamps for narrated recitation audio",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./forcealign.yaml)")
	pf.StringVar(&a.envFile, "env", ".env", "dotenv file loaded before the environment is read")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("store", "", "path of the JSON timing store")
	pf.String("model", "", "path of the DNN model file")
	pf.String("model-url", "", "base URL of a remote emission service")
	pf.String("vocab", "", "vocabulary YAML (default: built-in character set)")
	pf.String("db", "", "corpus database DSN")
	a.bind(pf.Lookup("log-level"), "log.level")
	a.bind(pf.Lookup("store"), "store.path")
	a.bind(pf.Lookup("model"), "model.path")
	a.bind(pf.Lookup("model-url"), "model.url")
	a.bind(pf.Lookup("vocab"), "vocabulary.path")
	a.bind(pf.Lookup("db"), "corpus.dsn")

	root.AddCommand(a.newRunCmd(), a.newAlignCmd(), a.newStatusCmd())
	return root
}

func (a *app) load() error {
	if err := config.LoadEnv(a.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	log.SetLevel(level)
	return nil
}
