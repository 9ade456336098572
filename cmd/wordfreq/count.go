package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/joshuapare/wordfreq/internal/config"
	"github.com/joshuapare/wordfreq/internal/logger"
	"github.com/joshuapare/wordfreq/internal/source"
	"github.com/joshuapare/wordfreq/wordcount"
)

// runCount counts every input into one counter and prints the report.
func runCount(cmd *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return withCode(exitFailure, err)
	}
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return withCode(exitFailure, err)
	}
	enc, err := source.LookupEncoding(cfg.Encoding)
	if err != nil {
		return withCode(exitFailure, err)
	}
	lim, err := cfg.Limits()
	if err != nil {
		return withCode(exitFailure, err)
	}

	c, err := wordcount.OpenWithLimits(cfg.MaxWord, lim)
	if err != nil {
		return withCode(exitFailure, fmt.Errorf("cannot create counter: %w", err))
	}
	defer c.Close()

	printVerbose("Counter: max word %d, capacity %d, block %d bytes, scan buffer %s, static %v\n",
		c.MaxWord(), c.Stats().Capacity, c.Stats().BlockSize, c.ScanBuffer(), c.Stats().Static)

	ctx := cmd.Context()
	loader := source.New(source.Options{Encoding: enc})

	var (
		inputs []string
		failed int
	)
	record := func(res source.Result, err error) {
		inputs = append(inputs, res.Name)
		if err != nil {
			failed++
			printError("%s: %v\n", res.Name, err)
			logger.L().Warn("input failed", zap.String("input", res.Name), zap.Error(err))
			return
		}
		printVerbose("%s: %d bytes, %d words\n", res.Name, res.Bytes, res.Words)
	}

	if len(args) == 0 {
		record(loader.Stdin(ctx, c, cmd.InOrStdin()))
	}
	for _, path := range args {
		if ctx.Err() != nil {
			printError("interrupted; %d input(s) skipped\n", len(args)-len(inputs))
			failed++
			break
		}
		record(loader.File(ctx, c, path))
	}

	if err := report(c, inputs, cfg.Top); err != nil {
		return withCode(exitFailure, err)
	}

	if failed > 0 {
		return withCode(exitPartial, fmt.Errorf("%d of %d input(s) failed", failed, max(len(inputs), len(args))))
	}
	return nil
}

// initLogging enables the zap logger when --log-level is given.
func initLogging() error {
	if logLevel == "" {
		logger.Init(logger.Options{})
		return nil
	}
	lvl, err := logger.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	logger.Init(logger.Options{Enabled: true, Level: lvl, JSON: jsonOut})
	return nil
}

// resolveConfig layers defaults, the config file, the environment and the
// flags the user set explicitly.
func resolveConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		if err := cfg.LoadFile(configPath); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return cfg, err
	}

	overlay := []struct {
		name  string
		apply func()
	}{
		{"max-word", func() { cfg.MaxWord = flagMaxWord }},
		{"max-bytes", func() { cfg.MaxBytes = flagMaxBytes }},
		{"init-cap", func() { cfg.InitCapacity = flagInitCap }},
		{"block-size", func() { cfg.BlockSize = flagBlockSize }},
		{"static-size", func() { cfg.StaticSize = flagStaticSize }},
		{"seed", func() { cfg.HashSeed = flagSeed }},
		{"scan-buffer", func() { cfg.ScanBuffer = flagScanBuffer }},
		{"encoding", func() { cfg.Encoding = flagEncoding }},
		{"top", func() { cfg.Top = flagTop }},
	}
	for _, o := range overlay {
		if flags.Changed(o.name) {
			o.apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	logger.L().Debug("configuration resolved", zap.Any("config", cfg))
	return cfg, nil
}
