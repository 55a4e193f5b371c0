// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gioui.org/multitouch/internal/config"
)

// app holds the state shared by the subcommands.
type app struct {
	configPath string
	verbose    bool

	cfg config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := new(app)
	root := &cobra.Command{
		Use:   "touchtrace",
		Short: "Recognize pinch, pan and long press gestures from touch contacts",
		Long: `touchtrace runs the multitouch gesture recognizer on recorded traces
or on live contacts sent by remote touch surfaces.

Configuration is read from the file given by --config, then from
TOUCHTRACE_ environment variables (TOUCHTRACE_PAN_SLOP,
TOUCHTRACE_LONG_PRESS_DELAY, TOUCHTRACE_PX_PER_DP, TOUCHTRACE_LISTEN,
TOUCHTRACE_ENABLE_CORS, TOUCHTRACE_LOG_LEVEL, TOUCHTRACE_LOG_FORMAT).`,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "touchtrace.toml", "configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log gesture transitions")
	root.AddCommand(newReplayCmd(a), newServeCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	a.cfg = cfg
	a.log = cfg.Logger()
	a.log.SetOutput(cmd.ErrOrStderr())
	return nil
}
