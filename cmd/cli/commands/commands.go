// Package commands defines the blastradius command tree.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.interactor.dev/blastradius"
	"go.interactor.dev/blastradius/encoding"
	"go.interactor.dev/blastradius/server"
)

const (
	// CLIName is the binary name used in usage strings and generated docs.
	CLIName = "blastradius"

	// it is illegal name of the file, so if this value will not be handled properly, application should blow up
	defaultLogFile = string(os.PathSeparator)
	userRW         = 0o600
)

// Version is expected to be set with -ldflags="-X .../commands.Version=1.2.3".
var Version = "dev-version"

type rootCfg struct {
	quiet    bool
	logLevel string
	logFmt   string
	logFile  string

	serve  bool
	export bool
	format string
	output string
	host   string
	port   int
}

// NewCommand returns the root command of the CLI.
func NewCommand() *cobra.Command {
	c := &rootCfg{}

	rootCmd := &cobra.Command{
		Use:     CLIName + " [--serve | --export] [--format (html|svg|png|json|all)] [--output dir] <path>",
		Example: CLIName + " --serve examples/aws-vpc\n" + CLIName + " --export examples/multi-tier-app --format all --output diagrams/",
		Short:   CLIName + " visualizes the dependency graph of a Terraform configuration",
		Version: Version,
		Args:    cobra.ExactArgs(1),
		RunE:    run(c),
	}

	f := rootCmd.Flags()
	f.BoolVar(&c.serve, "serve", false, "Start the interactive web viewer")
	f.BoolVar(&c.export, "export", false, "Export static files")
	f.StringVar(&c.format, "format", "html", "Output format: html, svg, png, json or all")
	f.StringVar(&c.output, "output", "output", "Output directory for exported files")
	f.StringVar(&c.host, "host", "127.0.0.1", "Web server host (serve mode)")
	f.IntVar(&c.port, "port", 5000, "Web server port (serve mode)")

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&c.quiet, "quiet", "q", false, "Does not produce logs when enabled. Overrides log-level.")
	pf.StringVar(&c.logLevel, "log-level", "INFO", "Sets log level. Ignored when --quiet was used.")
	pf.StringVar(&c.logFile, "log-file", "", "Writes logs to specified file. If file does not exist - creates it, otherwise appends to existing one. When flag is set without parameter, name of the file is generated based on current time. If not set logs are written to standard error")
	pf.Lookup("log-file").NoOptDefVal = defaultLogFile
	pf.StringVar(&c.logFmt, "log-format", "TEXT", "Sets log format. Allowed values: TEXT, JSON")

	if err := viper.BindPFlag("web.host", f.Lookup("host")); err != nil {
		panic(fmt.Errorf("binding flag host, %w", err))
	}
	if err := viper.BindPFlag("web.port", f.Lookup("port")); err != nil {
		panic(fmt.Errorf("binding flag port, %w", err))
	}

	return rootCmd
}

func run(c *rootCfg) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if !c.serve && !c.export {
			return cmd.Help()
		}
		if c.serve && c.export {
			return fmt.Errorf("--serve and --export are mutually exclusive")
		}
		if !validFormats[c.format] {
			return fmt.Errorf("unsupported format: %q, allowed: html, svg, png, json, all", c.format)
		}

		log, err := buildLogger(*c)
		if err != nil {
			return fmt.Errorf("failed to build logger: %s", err)
		}

		path := args[0]
		log.Info("parsing terraform configuration", slog.String("path", path))

		scanner := blastradius.NewScanner(log, nil)
		cfg, err := scanner.Scan(path)
		if err != nil {
			return fmt.Errorf("failed to scan path: %s, error was: %w", path, err)
		}

		graph := blastradius.BuildGraph(cfg)
		log.Info("generated graph",
			slog.Int("nodes", graph.NodeCount()),
			slog.Int("edges", graph.EdgeCount()))

		if c.serve {
			srv, err := server.New(cmd.Context(), log, graph, server.WithAddress(c.host, c.port))
			if err != nil {
				return fmt.Errorf("building server: %w", err)
			}
			return srv.Start()
		}

		return exportFiles(cmd, c, graph)
	}
}

var validFormats = map[string]bool{"html": true, "svg": true, "png": true, "json": true, "all": true}

// Fixed output file names; only the directory is configurable.
const (
	htmlFile = "index.html"
	svgFile  = "graph.svg"
	pngFile  = "graph.png"
	jsonFile = "graph.json"
)

func exportFiles(cmd *cobra.Command, c *rootCfg, graph *blastradius.Graph) error {
	formats := []string{c.format}
	if c.format == "all" {
		formats = []string{"html", "svg", "png", "json"}
	}

	for _, format := range formats {
		var (
			out string
			err error
		)
		switch format {
		case "html":
			out = filepath.Join(c.output, htmlFile)
			err = encoding.WriteHTML(graph, out)
		case "svg":
			out = filepath.Join(c.output, svgFile)
			err = encoding.RenderImage(cmd.Context(), graph, "svg", out)
		case "png":
			out = filepath.Join(c.output, pngFile)
			err = encoding.RenderImage(cmd.Context(), graph, "png", out)
		case "json":
			out = filepath.Join(c.output, jsonFile)
			err = encoding.WriteJSON(graph, out)
		}
		if err != nil {
			return fmt.Errorf("exporting %s: %w", format, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to: %s\n", strings.ToUpper(format), out)
	}

	return nil
}

func buildLogger(c rootCfg) (*slog.Logger, error) {
	defLvl := slog.LevelInfo
	lvl := &defLvl
	err := lvl.UnmarshalText([]byte(c.logLevel)) // mutates lvl
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	handlerFn, ok := handlers[c.logFmt]
	if !ok {
		return nil, fmt.Errorf("unsupported log format: %s", c.logFmt)
	}

	dst, err := buildLogDst(c)
	if err != nil {
		return nil, err
	}

	handler := handlerFn(dst, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), nil
}

var handlers = map[string]func(io.Writer, *slog.HandlerOptions) slog.Handler{
	"TEXT": func(writer io.Writer, opts *slog.HandlerOptions) slog.Handler {
		return slog.NewTextHandler(writer, opts)
	},
	"JSON": func(writer io.Writer, opts *slog.HandlerOptions) slog.Handler {
		return slog.NewJSONHandler(writer, opts)
	},
}

func buildLogDst(c rootCfg) (io.Writer, error) {
	if c.quiet {
		return io.Discard, nil
	}

	if len(c.logFile) == 0 {
		// flag not set
		return os.Stderr, nil
	}

	if c.logFile == defaultLogFile {
		// flag set without parameter
		now := time.Now()
		return os.Create(now.Format(CLIName + "_" + time.RFC3339Nano + ".log"))
	}

	return os.OpenFile(c.logFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, userRW)
}
