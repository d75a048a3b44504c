package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/deepnoodle-ai/rockwasm/compiler"
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

var rootCmd = &cobra.Command{
	Use:           "rockwasm",
	Short:         "Compile Rockstar programs to WebAssembly",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		processGlobalFlags()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rockwasm.yaml)")
	pf.String("value-type", "i32", "type of every runtime value (i32 or f32)")
	pf.String("host-module", compiler.DefaultHostModule, "import namespace of host functions")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("verbose", "v", false, "log each compilation stage")
	for _, name := range []string{"value-type", "host-module", "no-color", "verbose"} {
		viper.BindPFlag(name, pf.Lookup(name))
	}

	rootCmd.AddCommand(buildCmd, watCmd, astCmd, checkCmd, inspectCmd, versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fatal(err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rockwasm")
	}

	viper.SetEnvPrefix("rockwasm")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fatal(fmt.Errorf("reading config: %w", err))
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fatal(err)
	}
}
