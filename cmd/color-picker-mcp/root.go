package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/color-picker-mcp/internal/config"
	"github.com/ironsheep/color-picker-mcp/internal/palette"
	"github.com/ironsheep/color-picker-mcp/internal/server"
)

const minimalTimeFormat = "15:04:05.000"

// app carries state shared by the root command and its subcommands.
type app struct {
	v           *viper.Viper
	cfg         config.Config
	palette     *palette.Index
	configPath  string
	dumpConfig  bool
	failureCode int
	logF        *os.File
}

// execute runs the CLI and returns the process exit code.
func execute(args []string) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-stop
		log.Info().Str("signal", sig.String()).Msg("stopping")
		cancel()
	}()

	return run(ctx, args, os.Stdin, os.Stdout)
}

// run executes the command line in args with the given protocol streams.
func run(ctx context.Context, args []string, in io.Reader, out io.Writer) int {
	a := &app{v: config.NewViper(), configPath: config.DefaultConfigPath(), failureCode: 1}
	defer a.close()

	rootCmd, err := a.newRootCmd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to set up flags:", err)
		return 1
	}
	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(out) // default is stderr

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Err(err).Msg("command failed")
		return a.failureCode
	}
	return 0
}

func (a *app) newRootCmd() (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:   config.AppName,
		Short: "MCP server that names colors in images and extracts their dominant colors",
		Long: "color-picker-mcp speaks MCP (JSON-RPC 2.0) on stdin/stdout. It loads images,\n" +
			"pans a viewport over them, names the color under a point using a reference\n" +
			"table of named colors, and extracts dominant colors with k-means.\n\n" +
			"Settings come from flags, COLOR_PICKER_MCP_* environment variables and an\n" +
			"optional TOML file (default $HOME/.color-picker-mcp).",
		Version:           fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
		SilenceUsage:      true,
		PersistentPreRunE: a.atStart,
		RunE:              a.serve,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", a.configPath, "the configuration file to load")
	rootCmd.Flags().BoolVar(&a.dumpConfig, "dump-config", a.dumpConfig, "dump the effective configuration to stdout")
	if err := config.BindFlags(a.v, rootCmd.PersistentFlags()); err != nil {
		return nil, err
	}

	rootCmd.AddCommand(a.newPaletteCmd(), a.newNameCmd())
	return rootCmd, nil
}

func (a *app) atStart(cmd *cobra.Command, _ []string) error {
	found, err := config.ReadFile(a.v, a.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return a.fail(2, err)
	}
	if found {
		a.v.OnConfigChange(func(e fsnotify.Event) {
			confLogLevel := a.v.GetString(config.KeyLogLevel)
			level, err := zerolog.ParseLevel(confLogLevel)
			if err != nil {
				log.Err(err).Str("level", confLogLevel).Msg("unable to parse new log level")
				return
			}
			zerolog.SetGlobalLevel(level)
			log.Info().Str("file", e.Name).Str("level", level.String()).Msg("log level reloaded")
		})
		a.v.WatchConfig()
	}

	if err := a.setupLogging(); err != nil {
		return err
	}
	log.Debug().Str("file", a.v.ConfigFileUsed()).Msg("config")

	a.cfg, err = config.Load(a.v)
	if err != nil {
		return a.fail(2, err)
	}

	a.palette, err = loadPalette(a.cfg.Palette)
	if err != nil {
		var cfgErr *palette.ConfigError
		if errors.As(err, &cfgErr) {
			return a.fail(2, err)
		}
		return err
	}
	log.Debug().Int("colors", a.palette.Len()).Str("source", paletteSource(a.cfg.Palette)).Msg("palette loaded")
	return nil
}

func (a *app) serve(cmd *cobra.Command, _ []string) error {
	if a.dumpConfig {
		return a.showConfig(cmd.OutOrStdout())
	}

	log.Info().Str("version", Version).Msg("starting " + config.AppName)
	srv := server.New(a.cfg, a.palette, Version)
	return srv.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
}

func (a *app) showConfig(w io.Writer) error {
	out, err := yaml.Marshal(a.v.AllSettings())
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	_, err = w.Write(out)
	return err
}

func (a *app) close() {
	if a.logF != nil {
		a.logF.Close()
	}
}

// setupLogging points the global logger at stderr or a file. stdout is
// reserved for the protocol.
func (a *app) setupLogging() error {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	var logWriter io.Writer

	switch logDst := a.v.GetString(config.KeyLogDst); logDst {
	case "", "stderr":
		zerolog.TimeFieldFormat = minimalTimeFormat
		logWriter = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.TimeFormat = minimalTimeFormat
			w.Out = os.Stderr
		})
	default:
		f, err := os.OpenFile(logDst, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return a.fail(4, errors.Wrapf(err, "unable to open %s", logDst))
		}
		a.logF = f
		logWriter = f
	}

	level, err := zerolog.ParseLevel(a.v.GetString(config.KeyLogLevel))
	if err != nil {
		return a.fail(4, err)
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = zerolog.New(logWriter).With().Timestamp().Logger()
	return nil
}

func (a *app) fail(code int, err error) error {
	a.failureCode = code
	return err
}

func loadPalette(path string) (*palette.Index, error) {
	if path == "" {
		return palette.Default()
	}
	return palette.LoadFile(path)
}

func paletteSource(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
