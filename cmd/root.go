package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/spf13/cobra"

	"github.com/cmmoran/buildergen/pkg/generator"
)

var (
	configFiles    []string
	level, version string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "buildergen",
	Short:         "generate fluent builders from class facts",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		slog.Default().With("error", err).Error("buildergen failed")
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&level, "level", "l", "info", "log level (trace, debug, info, warn, error, debug+1, etc)")
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", []string{}, "config file(s) - multiple config files are merged with last specified file having highest priority")
	if len(version) > 0 {
		generator.Version = version
	}
}

// parseLevel accepts slog level names plus "trace".
func parseLevel(s string) slog.Level {
	var ll slog.Level
	if err := (&ll).UnmarshalText([]byte(s)); err != nil {
		if strings.EqualFold(s, "trace") {
			return slog.Level(-8)
		}
		panic("invalid log level: " + s)
	}
	return ll
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	l := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   false,
		Level:       parseLevel(level),
		ReplaceAttr: nil,
	}))
	slog.SetDefault(l)

	if len(configFiles) > 0 {
		// Use config file from the flag.
		viper.SetConfigFile(configFiles[0])
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc")
		viper.SetConfigType("yaml")
		viper.SetConfigName("buildergen")
	}

	viper.SetEnvPrefix("BUILDERGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		l.With("config", viper.ConfigFileUsed()).Info("using config file(s)")
	} else {
		l.With("error", err, "config", viper.ConfigFileUsed()).Debug("unable to use config file(s)")
	}
	if len(configFiles) > 1 {
		for _, file := range configFiles[1:] {
			if configBytes, err := os.ReadFile(file); err == nil {
				if err = viper.MergeConfig(bytes.NewReader(configBytes)); err != nil {
					l.With("error", err, "file", file).Warn("failed to merge config file")
				} else {
					l.With("file", file).Info("merged config file")
				}
			}
		}
	}

	if llstr := viper.GetString("log.level"); llstr != "" && !rootCmd.PersistentFlags().Changed("level") {
		l = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			AddSource:   false,
			Level:       parseLevel(llstr),
			ReplaceAttr: nil,
		}))
		slog.SetDefault(l)
	}
}

// filesystem is the filesystem subcommands read facts from and write to.
var filesystem = afero.NewOsFs()

// bindOptions binds the generation flags of c to o. Values from config
// files and the environment apply to every flag the user did not set.
func bindOptions(c *cobra.Command, o *generator.Options) {
	flags := c.Flags()
	flags.StringVarP(&o.InDir, "input-directory", "i", ".", "directory facts inputs are resolved against")
	flags.StringSliceVarP(&o.Inputs, "input", "I", []string{}, "facts file or directory, may be repeated")
	flags.StringVarP(&o.OutDir, "output-directory", "o", "generated", "directory builders are written below")
	flags.StringVarP(&o.Suffix, "suffix", "s", "Builder", "suffix appended to builder class names")
	flags.StringVar(&o.ObjectName, "object-name", "object", "name of the held-instance field")
	flags.StringVar(&o.ParamPrefix, "param-prefix", "param", "prefix of generated parameter names")
	flags.StringVar(&o.BuildMethod, "build-method", "build", "name of the terminal accessor")
	flags.StringVar(&o.LoggerName, "logger-name", "LOG", "name of the logger field used by log null-checks")
	flags.StringVarP(&o.Manifest, "manifest", "m", "buildergen.yaml", "manifest file, relative to the output directory")
}

// loadOptions overlays config and environment values onto o for every
// flag left at its default.
func loadOptions(c *cobra.Command, o *generator.Options) error {
	var fromConfig generator.Options
	if err := viper.Unmarshal(&fromConfig); err != nil {
		return err
	}
	overlay := map[string]func(){
		"input-directory":  func() { setString(&o.InDir, fromConfig.InDir, "in_dir") },
		"input":            func() { setStrings(&o.Inputs, fromConfig.Inputs, "inputs") },
		"output-directory": func() { setString(&o.OutDir, fromConfig.OutDir, "out_dir") },
		"suffix":           func() { setString(&o.Suffix, fromConfig.Suffix, "suffix") },
		"object-name":      func() { setString(&o.ObjectName, fromConfig.ObjectName, "object_name") },
		"param-prefix":     func() { setString(&o.ParamPrefix, fromConfig.ParamPrefix, "param_prefix") },
		"build-method":     func() { setString(&o.BuildMethod, fromConfig.BuildMethod, "build_method") },
		"logger-name":      func() { setString(&o.LoggerName, fromConfig.LoggerName, "logger_name") },
		"manifest":         func() { setString(&o.Manifest, fromConfig.Manifest, "manifest") },
	}
	for flag, apply := range overlay {
		if !c.Flags().Changed(flag) {
			apply()
		}
	}
	if len(o.Targets) == 0 {
		o.Targets = fromConfig.Targets
	}
	o.Normalize()
	return nil
}

func setString(dst *string, v, key string) {
	if v == "" {
		v = viper.GetString(key)
	}
	if v != "" {
		*dst = v
	}
}

func setStrings(dst *[]string, v []string, key string) {
	if len(v) == 0 {
		v = viper.GetStringSlice(key)
	}
	if len(v) > 0 {
		*dst = v
	}
}
