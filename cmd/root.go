package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/anima-progress/engine"
	"github.com/spaghettifunk/anima-progress/engine/core"
	"github.com/spaghettifunk/anima-progress/testbed"
)

var (
	configPath string
	feedPath   string
	logLevel   string
	maxFrames  uint64
)

var rootCmd = &cobra.Command{
	Use:           "anima-progress",
	Short:         "Headless testbed driving a capsule progress bar",
	Long:          `anima-progress runs the engine loop with a single progress bar in the scene. Values come from a demo sequence or, with --feed, from a file that is watched for changes.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	rootCmd.Flags().StringVarP(&feedPath, "feed", "f", "", "File to watch for progress values (\"<progress> [duration]\")")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().Uint64Var(&maxFrames, "frames", 0, "Stop after this many frames (0 runs until interrupted)")
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		core.LogError(err.Error())
	}
	return err
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := testbed.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("feed") {
		cfg.Feed.Path = feedPath
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Application.LogLevel = logLevel
	}
	if cmd.Flags().Changed("frames") {
		cfg.Application.MaxFrames = maxFrames
	}

	tb, err := testbed.NewTestGame(cfg)
	if err != nil {
		return err
	}

	e, err := engine.New(tb.Game)
	if err != nil {
		return err
	}
	if err := e.Initialize(); err != nil {
		return err
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		if _, ok := <-sigCh; ok {
			_ = e.Shutdown()
		}
	}()

	return e.Run()
}
