// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sshauth-replay drives the sshauth Driver's state machine against
// a recorded transcript of SSH_MSG_USERAUTH_* payloads, to exercise and
// demonstrate authentication methods without a live network peer.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leafbound/sshuserauth"
	"github.com/leafbound/sshuserauth/internal/replay"
)

var (
	cfgFile string
	logger  = logrus.StandardLogger()
)

var rootCmd = &cobra.Command{
	Use:   "sshauth-replay <method> <transcript.json>",
	Short: "Replay a recorded SSH user-auth transcript through the sshauth driver",
	Long: `sshauth-replay feeds a recorded transcript of SSH_MSG_USERAUTH_*
messages to the sshauth authentication driver and reports the resulting
outcome, without dialing any network peer.`,
	Args: cobra.ExactArgs(2),
	RunE: runReplay,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sshauth-replay.yaml)")
	rootCmd.PersistentFlags().String("user", "demo", "username to authenticate as")
	rootCmd.PersistentFlags().String("password", "", "password for the \"password\" method")
	rootCmd.PersistentFlags().String("log-level", "info", "logrus level: trace, debug, info, warn, error")

	viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))
	viper.BindPFlag("password", rootCmd.PersistentFlags().Lookup("password"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".sshauth-replay")
		}
	}
	viper.SetEnvPrefix("SSHAUTH")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}

	level, err := logrus.ParseLevel(strings.ToLower(viper.GetString("log-level")))
	if err == nil {
		logger.SetLevel(level)
	}
}

func runReplay(cmd *cobra.Command, args []string) error {
	methodName, transcriptPath := args[0], args[1]

	transcript, err := replay.LoadTranscript(transcriptPath)
	if err != nil {
		return err
	}
	transport, err := replay.NewTransport(transcript, logrus.NewEntry(logger))
	if err != nil {
		return err
	}

	service := transcript.Service
	driver, err := sshauth.NewDriver(transport, viper.GetString("user"), service,
		sshauth.WithLogger(logger),
		sshauth.WithBannerSink(sshauth.BannerFunc(func(message, language string) {
			fmt.Fprintf(os.Stdout, "banner: %s\n", message)
		})),
	)
	if err != nil {
		return err
	}

	method, err := buildMethod(methodName)
	if err != nil {
		return err
	}

	outcome, err := driver.Authenticate(method)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "outcome: %s\n", outcome)
	return nil
}

func buildMethod(name string) (sshauth.Method, error) {
	switch name {
	case "password":
		return sshauth.PasswordMethod(sshauth.StaticPassword(viper.GetString("password"))), nil
	case "keyboard-interactive":
		return sshauth.KeyboardInteractiveMethod(sshauth.NewTerminalPrompter()), nil
	default:
		return nil, fmt.Errorf("sshauth-replay: unknown method %q (want \"password\" or \"keyboard-interactive\")", name)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Error("replay failed")
		os.Exit(1)
	}
}
