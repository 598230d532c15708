package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/jfcliche/vhdl-doc/internal/builder"
	"github.com/jfcliche/vhdl-doc/internal/config"
	"github.com/jfcliche/vhdl-doc/internal/validator"
)

func main() {
	output := flag.String("output", "", "write documentation to file (default: stdout)")
	flag.StringVar(output, "o", "", "write documentation to file (shorthand)")
	format := flag.String("format", "", "output format: json or yaml (default: from config)")
	std := flag.String("std", "", "VHDL standard: 1993 or 2008 (default: from config)")
	configPath := flag.String("config", "", "configuration file (default: search vhdl_doc.json/.yaml)")
	strict := flag.Bool("strict", false, "exit nonzero when any diagnostic was produced")
	watch := flag.Bool("watch", false, "rebuild whenever a source file changes")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: vhdl-doc [flags] <path>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	rootPath := args[0]

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load(rootPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *std != "" {
		cfg.Standard = *std
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *output != "" {
		cfg.Output.Path = *output
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	val, err := validator.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading output schema: %v\n", err)
		os.Exit(1)
	}

	b := builder.New(cfg, log)

	emit := func(result *builder.Result) error {
		if err := val.Validate(result); err != nil {
			return fmt.Errorf("output failed schema validation: %w", err)
		}
		return writeResult(cfg.Output, result)
	}

	if *watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err := b.Watch(ctx, rootPath, func(result *builder.Result) {
			if err := emit(result); err != nil {
				log.WithError(err).Error("emitting documentation")
			}
		})
		if err != nil && err != context.Canceled {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	result, err := b.Build(rootPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := emit(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *strict && len(result.Diagnostics) > 0 {
		for _, d := range result.Diagnostics {
			fmt.Fprintln(os.Stderr, d.String())
		}
		os.Exit(1)
	}
}

// writeResult serializes the result per the output configuration. YAML goes
// through a JSON round-trip so both formats honor the same field names and
// the custom comment-block encoding.
func writeResult(out config.OutputConfig, result *builder.Result) error {
	var data []byte
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding documentation: %w", err)
	}
	switch out.Format {
	case "yaml":
		var tree interface{}
		if err := json.Unmarshal(jsonBytes, &tree); err != nil {
			return fmt.Errorf("encoding documentation: %w", err)
		}
		data, err = yaml.Marshal(tree)
		if err != nil {
			return fmt.Errorf("encoding documentation: %w", err)
		}
	default:
		data = append(jsonBytes, '\n')
	}

	if out.Path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out.Path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out.Path, err)
	}
	return nil
}
