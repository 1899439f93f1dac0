package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sdr-ops/internal/governance"
	"github.com/sells-group/sdr-ops/internal/scenario"
	"github.com/sells-group/sdr-ops/internal/scoring"
)

var scenariosNoPersist bool

var scenariosCmd = &cobra.Command{
	Use:   "scenarios <suite.yaml>...",
	Short: "Run regression scenarios against the scoring and governance core",
	Long:  "Each YAML suite declares leads with expected decisions, scores and governance outcomes. The deterministic core runs without a model client, so suites are safe in CI. A non-zero exit means at least one case failed.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		runner := scenario.NewRunner(
			scoring.DefaultConfig(cfg.Qualify.Threshold),
			governance.NewEvaluator(cfg.Governance.Competitors),
			nil,
		)
		if !scenariosNoPersist {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
			runner = scenario.NewRunner(
				scoring.DefaultConfig(cfg.Qualify.Threshold),
				governance.NewEvaluator(cfg.Governance.Competitors),
				st,
			)
		}

		var failed int
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return eris.Wrapf(err, "open %s", path)
			}
			suite, err := scenario.LoadSuite(f)
			f.Close()
			if err != nil {
				return err
			}

			runs, err := runner.Run(ctx, suite)
			if err != nil {
				return err
			}

			for _, run := range runs {
				if run.Passed {
					fmt.Printf("PASS  %s / %s\n", run.Suite, run.Scenario)
					continue
				}
				failed++
				fmt.Printf("FAIL  %s / %s: %s\n", run.Suite, run.Scenario, run.Details)
			}
		}

		if failed > 0 {
			return eris.Errorf("%d scenario(s) failed", failed)
		}
		return nil
	},
}

func init() {
	scenariosCmd.Flags().BoolVar(&scenariosNoPersist, "no-persist", false, "Skip recording results in the store")
	rootCmd.AddCommand(scenariosCmd)
}
