package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mewais/archtools.io/cmd/db"
	"github.com/mewais/archtools.io/cmd/pseudocode"
	"github.com/mewais/archtools.io/cmd/tools"
)

var (
	cfgFile  string
	logLevel string
	logFile  string
)

// rootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "archtools",
	Short: "Maintenance tools for the instruction database",
	Long: `Archtools maintains the RISC-V instruction database: Sail to C-style
pseudocode conversion, dialect formatting, encoding bit-field decomposition,
review patch application and manual fixes.

This CLI is the entry point for all database maintenance workflows.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(pseudocode.PseudocodeCmd, db.DbCmd, tools.ToolsCmd)
	cobra.OnInitialize(initConfig, initLogging)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.archtools.yaml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	RootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append JSON logs to this file in addition to stderr")
	viper.BindPFlag("log-level", RootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-file", RootCmd.PersistentFlags().Lookup("log-file"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".archtools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".archtools")
	}

	viper.SetEnvPrefix("archtools")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// initLogging points slog.Default at stderr, and additionally at the log
// file when one is configured. Runs after initConfig so config file and
// environment values are visible.
func initLogging() {
	level := parseLogLevel(viper.GetString("log-level"))

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}

	if path := viper.GetString("log-file"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Cannot open log file:", err)
			os.Exit(1)
		}
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))
}

func parseLogLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
