/*
Copyright SUSE LLC.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"

	"github.com/Masterminds/log-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/packsolve/packsolve/pkg/eyecandy"
	"github.com/packsolve/packsolve/pkg/solver"
	"github.com/packsolve/packsolve/pkg/transaction"
)

var solveHelp = `
Resolve the given package specs against a world file and print the resulting
transaction.

Example:

    packsolve solve -f world.yaml "numpy >=1.21,<2" "scipy"
`

func newSolveCmd(logger log.Logger) *cobra.Command {
	var worldPath string
	var outfmt string

	cmd := &cobra.Command{
		Use:   "solve [SPEC...]",
		Short: "resolve package specs into a transaction",
		Long:  solveHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseOutputMode(outfmt)
			if err != nil {
				return err
			}

			p, provider, jobs, err := loadWorld(worldPath, logger)
			if err != nil {
				return err
			}
			for _, diag := range provider.Diagnostics() {
				logger.Warn(diag)
			}

			for _, spec := range args {
				set, err := provider.InternSpec(spec)
				if err != nil {
					return err
				}
				jobs.Install(set)
			}

			logger.Debug(eyecandy.ESPrintf(settings.NoEmojis, ":mag: solving %d spec(s)…", len(args)))

			s := solver.New(p, provider)
			s.SetLogger(logger)
			txn, err := s.Solve(jobs)
			if err != nil {
				return err
			}

			fmt.Print(txn.FormatOutput(mode, settings.NoEmojis))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&worldPath, "file", "f", "world.yaml", "world file with the package universe and install state")
	flags.StringVarP(&outfmt, "output", "o", "table", "output format: table, yaml or json")

	return cmd
}

func parseOutputMode(s string) (transaction.OutputMode, error) {
	switch s {
	case "table":
		return transaction.Table, nil
	case "yaml":
		return transaction.YAML, nil
	case "json":
		return transaction.JSON, nil
	}
	return 0, errors.Errorf("unknown output format %q", s)
}
