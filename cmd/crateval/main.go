package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rust-ffi-checker/crateval/internal/log"
	"github.com/rust-ffi-checker/crateval/internal/model"
	"gopkg.in/yaml.v3"

	"github.com/spf13/cobra"
)

var (
	userConfigPath string // /default/config/path/crateval on given OS
	configPath     string // actual config file used (if loaded)
	config         model.Config
	logCloser      io.Closer = io.NopCloser(nil)

	flagConfigFilePath string // value of --config flag
	flagVerbose        bool   // value of --verbose flag
	flagLogFile        string // value of --log-file flag
)

func init() {
	if d, err := os.UserConfigDir(); err == nil {
		userConfigPath = filepath.Join(d, "crateval")
	}
}

func main() {
	// root flags
	rootCmd.PersistentFlags().StringVar(&flagConfigFilePath, "config", "", "Config file to load - default is crateval.yaml in current directory or in "+userConfigPath)
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "write logs to a rotated file instead of service.log")

	// never print messages
	rootCmd.SilenceErrors = true

	// parse the config, setup logging
	rootCmd.PersistentPreRunE = initCrateval
	rootCmd.PersistentPostRun = func(*cobra.Command, []string) {
		_ = logCloser.Close()
	}

	runCmd.Flags().BoolVar(&flagStrict, "strict", false, "fail the classification of diagnoses without a severity marker")
	preprocessCmd.Flags().StringVar(&flagKnown, "known", "", "file listing crates to leave out, one per line")
	preprocessCmd.Flags().IntVar(&flagPreprocessTimeout, "timeout", 0, "timeout in seconds for each crate, 0 waits forever")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(preprocessCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	// analyzers run in their own process groups and miss the terminal's
	// SIGINT, canceling the context stops them
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
		}
		slog.Error("crateval failed", "err", err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "crateval",
	Short:        "Batch runner of cargo-ffi-checker over many crates",
	SilenceUsage: true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer func() {
			_ = enc.Close()
		}()
		return enc.Encode(config)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "version provide version of a crateval",
	Run: func(cmd *cobra.Command, args []string) {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			fmt.Println("crateval: version info not available")
			return
		}

		if configPath != "" {
			fmt.Printf("config:   %s\n", configPath)
		}
		fmt.Printf("crateval: %s\n", info.Main.Version)
		fmt.Printf("go:       %s\n", info.GoVersion)
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				fmt.Printf("commit:   %s\n", s.Value)
			case "vcs.time":
				fmt.Printf("date:     %s\n", s.Value)
			case "vcs.modified":
				fmt.Printf("dirty:    %s\n", s.Value)
			}
		}
		fmt.Println()
	},
}

func initCrateval(cmd *cobra.Command, _ []string) error {
	// .env is optional, variables already set win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	if envConfig, ok := os.LookupEnv("CRATEVALCONFIG"); ok {
		configPath = envConfig
	} else if flagConfigFilePath != "" {
		configPath = flagConfigFilePath
	} else {
		for _, d := range []string{".", userConfigPath} {
			if d == "" {
				continue
			}
			path := filepath.Join(d, "crateval.yaml")
			if exists(path) {
				configPath = path
				break
			}
		}
	}

	if configPath == "" {
		config = model.DefaultConfig()
	} else {
		f, err := os.Open(configPath)
		if err != nil {
			return fmt.Errorf("opening config file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		config, err = model.LoadConfig(f)
		if err != nil {
			for _, d := range model.CueErrDetails(err) {
				slog.Error(d.String(), d.Attr("detail"))
			}
			return fmt.Errorf("parsing config %s: %w", configPath, err)
		}
	}

	// flags have a precedence over config file
	if flagVerbose {
		config.Service.Verbose = true
	}
	if flagLogFile != "" {
		config.Service.Log = flagLogFile
	}

	// initialize logging
	w, closer, err := log.Output(config.Service.Log)
	if err != nil {
		return fmt.Errorf("opening log output %s: %w", config.Service.Log, err)
	}
	logCloser = closer
	slog.SetDefault(log.New(w, config.Service.Verbose))

	slog.Debug("crateval run", "configPath", configPath)
	slog.Debug("crateval run", "config", config)
	return nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
