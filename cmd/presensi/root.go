package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix     = "PRESENSI"
	defaultServer = "http://localhost:8080"
)

func newRootCommand() *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:          "presensi",
		Short:        "Check in and out of work from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, configFile)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default $HOME/.presensi.yaml)")
	flags.String("server", defaultServer, "API base URL")
	flags.String("token", "", "bearer token")
	_ = v.BindPFlag("server", flags.Lookup("server"))
	_ = v.BindPFlag("token", flags.Lookup("token"))

	cmd.AddCommand(newCheckCommand(v, checkIn), newCheckCommand(v, checkOut))
	return cmd
}

// loadConfig layers flags over PRESENSI_* env over the config file.
func loadConfig(v *viper.Viper, configFile string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigName(".presensi")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}
