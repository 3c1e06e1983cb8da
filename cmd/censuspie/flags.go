package main

import (
	"context"

	"github.com/benoitkugler/censuspie/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
)

// flags shared by the commands
func addSourceFlags(fs *pflag.FlagSet) {
	def := config.Default()
	fs.String("data-file", def.DataFile, "CSV file of the dataset")
	fs.String("data-url", "", "URL of the CSV dataset, taking precedence over --data-file")
	fs.String("charset", "", "encoding of the dataset (default utf-8, or the Content-Type of the URL)")
	fs.StringSlice("category", def.Categories, "categories to draw")
	fs.Duration("timeout", def.Timeout, "timeout of the whole command")
	fs.Int("concurrency", def.Concurrency, "maximum number of charts computed at once")
	fs.String("language", def.Language, "language used to format the numbers (BCP 47 tag)")
}

// loadConfig reads the configuration file and the environment,
// then applies the flags explicitly set on the command line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path, nil)
	if err != nil {
		return cfg, err
	}
	if err := applyFlags(cmd.Flags(), &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyFlags(fs *pflag.FlagSet, cfg *config.Config) error {
	var err error
	set := func(name string, apply func() error) {
		if err != nil || fs.Lookup(name) == nil || !fs.Changed(name) {
			return
		}
		err = apply()
	}
	set("data-file", func() (e error) { cfg.DataFile, e = fs.GetString("data-file"); return })
	set("data-url", func() (e error) { cfg.DataURL, e = fs.GetString("data-url"); return })
	set("charset", func() (e error) { cfg.Charset, e = fs.GetString("charset"); return })
	set("category", func() (e error) { cfg.Categories, e = fs.GetStringSlice("category"); return })
	set("timeout", func() (e error) { cfg.Timeout, e = fs.GetDuration("timeout"); return })
	set("concurrency", func() (e error) { cfg.Concurrency, e = fs.GetInt("concurrency"); return })
	set("language", func() (e error) { cfg.Language, e = fs.GetString("language"); return })
	set("out", func() (e error) { cfg.OutDir, e = fs.GetString("out"); return })
	set("format", func() (e error) { cfg.Formats, e = fs.GetStringSlice("format"); return })
	set("title", func() (e error) { cfg.Title, e = fs.GetString("title"); return })
	set("show-percentages", func() (e error) { cfg.ShowPercentages, e = fs.GetBool("show-percentages"); return })
	set("animate", func() (e error) { cfg.Animate, e = fs.GetBool("animate"); return })
	set("radius", func() (e error) { cfg.Radius, e = fs.GetFloat64("radius"); return })
	set("font-size", func() (e error) { cfg.FontSize, e = fs.GetFloat64("font-size"); return })
	set("scale", func() (e error) { cfg.Scale, e = fs.GetFloat64("scale"); return })
	return err
}

// commandContext returns the context of a command, carrying the
// klog logger and the configured timeout.
func commandContext(cmd *cobra.Command, cfg config.Config) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = klog.NewContext(ctx, klog.Background().WithName(cmd.Name()))
	if cfg.Timeout > 0 {
		return context.WithTimeout(ctx, cfg.Timeout)
	}
	return context.WithCancel(ctx)
}
