package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shrimp",
		Short:         "Compile and run Shrimp programs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			processGlobalFlags()
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.shrimp.toml)")
	flags.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("registry", "", "TOML file of command definitions")
	flags.StringP("output", "o", "", "output format (json or text)")
	for _, name := range []string{"log-level", "no-color", "registry", "output"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
	rootCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(
		newTokensCmd(),
		newCSTCmd(),
		newCompileCmd(),
		newDisCmd(),
		newRunCmd(),
		newCompleteCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// addSourceFlags adds the flags shared by commands that read a program.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "code to read instead of a file")
	cmd.Flags().Bool("stdin", false, "read code from stdin")
}

func initConfig() {
	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			fatal(err)
		}
		viper.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".shrimp")
		viper.SetConfigType("toml")
	}
	viper.SetEnvPrefix("shrimp")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fatal(fmt.Errorf("reading config: %w", err))
		}
	}
}

func main() {
	cobra.OnInitialize(initConfig)
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}
