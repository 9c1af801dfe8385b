package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/amaumene/testenv/pkg/config"
)

type rootOptions struct {
	envFiles []string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "testenv",
		Short: "Resolve the device test-run configuration from the environment",
		Long: `testenv reads the test-run environment variables (DEVICE, APP, SAUCE,
LAUNCH_TIMEOUT, ...) and resolves the automation capabilities and test
endpoints a run will use.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().StringArrayVar(&opts.envFiles, "env-file", nil, "dotenv file to read (repeatable, process env wins)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newPrintCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newRecordCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	return cmd
}

// loadEnv snapshots the process environment and merges the env files.
func (o *rootOptions) loadEnv() (config.Env, error) {
	env, err := config.LoadEnvFiles(config.FromOS(), o.envFiles...)
	if err != nil {
		return nil, err
	}
	if env.Bool("VERBOSE", false) {
		log.SetLevel(log.DebugLevel)
	}
	return env, nil
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	env, err := o.loadEnv()
	if err != nil {
		return nil, err
	}
	return resolve(env)
}

func resolve(env config.Env) (*config.Config, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, err
	}

	log.WithFields(cfg.Fields()).Debug("Resolved test configuration")
	return cfg, nil
}
