package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective configuration",
		Long:  "Print the configuration resolved from .env, the environment and flags. API keys are masked.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := a.loadConfig()
			if err != nil {
				a.fail(err)
				return
			}

			data, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
			if err != nil {
				a.fail(err)
				return
			}
			fmt.Fprintln(a.stdout, string(data))
		},
	}
}
