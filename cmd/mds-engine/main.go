package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ltc-mds-engine/internal/config"
	"github.com/ltc-mds-engine/internal/domain"
	"github.com/ltc-mds-engine/internal/logging"
	"github.com/ltc-mds-engine/internal/rates"
	"github.com/ltc-mds-engine/internal/report"
	"github.com/ltc-mds-engine/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "mds-engine",
	Short: "Long-term-care assessment classification engine",
	Long: `mds-engine scores MDS 3.0 style resident assessments, assigns the
reimbursement classification code, estimates revenue from the rate table and
evaluates the care-area trigger catalog.

Assessment snapshots are read from JSON or YAML files. A file may hold one
snapshot, a JSON array of snapshots or a multi-document YAML stream.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: search for mds-engine.yaml)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().String("rates", "", "rate table file (default: embedded table)")
	rootCmd.PersistentFlags().String("base-per-diem", "", "override the rate table's base per diem")
}

func registerCommands() {
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(triggersCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(careAreasCmd())
	rootCmd.AddCommand(ratesCmd())
	rootCmd.AddCommand(configCmd())
}

// flagOverrides maps persistent flags onto configuration keys.
var flagOverrides = map[string]string{
	"log-level":     "logging.level",
	"log-format":    "logging.format",
	"rates":         "revenue.rate_table_path",
	"base-per-diem": "revenue.base_per_diem",
}

// app is the wiring shared by every command.
type app struct {
	config    *config.Manager
	logger    *logrus.Logger
	rates     *rates.Table
	parser    *service.SnapshotParser
	engine    *service.AssessmentEvaluator
	evaluator domain.Evaluator
	json      bool
}

func newApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	m, err := config.NewManager(path)
	if err != nil {
		return nil, err
	}
	for flag, key := range flagOverrides {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := m.Set(key, f.Value.String()); err != nil {
			return nil, err
		}
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg := m.GetConfig()

	logger := logging.New(cfg.Logging)
	if used := m.ConfigFileUsed(); used != "" {
		logger.WithField("file", used).Debug("configuration loaded")
	}

	table, err := loadRates(cfg.Revenue)
	if err != nil {
		return nil, err
	}

	engine, err := service.NewAssessmentEvaluator(logger, cfg.Engine, table)
	if err != nil {
		return nil, err
	}

	var evaluator domain.Evaluator = engine
	if cfg.Cache.Enabled {
		cached, err := service.NewCachedEvaluator(engine, cfg.Cache.MaxEntries, logger)
		if err != nil {
			return nil, err
		}
		evaluator = cached
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	return &app{
		config:    m,
		logger:    logger,
		rates:     table,
		parser:    service.NewSnapshotParser(logger),
		engine:    engine,
		evaluator: evaluator,
		json:      asJSON,
	}, nil
}

func loadRates(cfg domain.RevenueConfig) (*rates.Table, error) {
	var (
		table *rates.Table
		err   error
	)
	if cfg.RateTablePath != "" {
		table, err = rates.LoadFile(cfg.RateTablePath)
	} else {
		table, err = rates.Default()
	}
	if err != nil {
		return nil, err
	}

	if cfg.BasePerDiem == "" {
		return table, nil
	}
	base, err := decimal.NewFromString(cfg.BasePerDiem)
	if err != nil {
		return nil, fmt.Errorf("invalid base per diem %q: %w", cfg.BasePerDiem, err)
	}
	return table.WithBasePerDiem(base)
}

func parseStay(s string) (decimal.Decimal, error) {
	los, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid length of stay %q: %w", s, err)
	}
	if los.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrNegativeStay, los)
	}
	return los, nil
}

func classifyCmd() *cobra.Command {
	var (
		los          string
		withTriggers bool
	)
	cmd := &cobra.Command{
		Use:   "classify <snapshot-file>",
		Short: "Score and classify one assessment and estimate its revenue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			stay, err := parseStay(los)
			if err != nil {
				return err
			}
			assessment, err := a.parser.ParseFile(args[0])
			if err != nil {
				return err
			}

			ev, err := a.evaluator.Evaluate(assessment, domain.EvaluationOptions{LengthOfStay: stay})
			if err != nil {
				return err
			}
			var triggers []domain.CareAreaTrigger
			if withTriggers {
				if triggers, err = a.evaluator.EvaluateTriggers(assessment); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if a.json {
				return report.JSON(out, struct {
					*domain.Evaluation
					Triggers []domain.CareAreaTrigger `json:"triggers,omitempty"`
				}{ev, triggers})
			}
			report.WriteEvaluation(out, ev)
			if withTriggers {
				report.WriteTriggers(out, triggers, true)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&los, "los", "30", "length of stay in days for the revenue estimate")
	cmd.Flags().BoolVar(&withTriggers, "triggers", false, "also evaluate the care-area triggers")
	return cmd
}

func triggersCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "triggers <snapshot-file>",
		Short: "Evaluate the care-area trigger catalog for one assessment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			assessment, err := a.parser.ParseFile(args[0])
			if err != nil {
				return err
			}

			triggers, err := a.evaluator.EvaluateTriggers(assessment)
			if err != nil {
				return err
			}
			if a.json {
				return report.JSON(cmd.OutOrStdout(), triggers)
			}
			report.WriteTriggers(cmd.OutOrStdout(), triggers, !all)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "show care areas that did not trigger")
	return cmd
}

func batchCmd() *cobra.Command {
	var (
		los     string
		workers int
		xlsx    string
	)
	cmd := &cobra.Command{
		Use:   "batch <snapshot-file>...",
		Short: "Evaluate every snapshot in the given files concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			stay, err := parseStay(los)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				if err := a.config.Set("batch.workers", workers); err != nil {
					return err
				}
			}

			var inputs []service.BatchInput
			for _, path := range args {
				raws, err := a.parser.ReadFile(path)
				if err != nil {
					return err
				}
				for i, raw := range raws {
					source := path
					if len(raws) > 1 {
						source = fmt.Sprintf("%s#%d", path, i+1)
					}
					inputs = append(inputs, service.BatchInput{Source: source, Snapshot: raw})
				}
			}

			runner := service.NewBatchRunner(a.logger, a.parser, a.evaluator, a.config.GetConfig().Batch.Workers)
			result, err := runner.Run(cmd.Context(), inputs, domain.EvaluationOptions{LengthOfStay: stay})
			if err != nil {
				return err
			}

			if xlsx != "" {
				if err := report.WriteWorkbook(xlsx, result); err != nil {
					return err
				}
				a.logger.WithField("path", xlsx).Info("batch workbook written")
			}

			if a.json {
				return report.JSON(cmd.OutOrStdout(), result)
			}
			report.WriteBatch(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&los, "los", "30", "length of stay in days for the revenue estimates")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent evaluations (default: one per CPU)")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "also write the results to this spreadsheet")
	return cmd
}

func careAreasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "care-areas",
		Short: "List the care-area trigger catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			rules := a.engine.CareAreaRules()
			if a.json {
				type entry struct {
					Area        domain.CareArea  `json:"area"`
					Description string           `json:"description"`
					Fields      []domain.FieldID `json:"fields"`
					Requires    []domain.FieldID `json:"requires,omitempty"`
				}
				entries := make([]entry, len(rules))
				for i, r := range rules {
					entries[i] = entry{Area: r.Area, Description: r.Description, Fields: r.Fields, Requires: r.Requires}
				}
				return report.JSON(cmd.OutOrStdout(), entries)
			}
			report.WriteCareAreas(cmd.OutOrStdout(), rules)
			return nil
		},
	}
}

func ratesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Show the rate table in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if a.json {
				groups := make(map[string]string)
				for _, g := range a.rates.Groups() {
					for _, ind := range a.rates.Indicators() {
						if cmi, err := a.rates.CaseMixIndex(g + ind); err == nil {
							groups[g] = cmi.String()
							break
						}
					}
				}
				return report.JSON(cmd.OutOrStdout(), map[string]any{
					"version":       a.rates.Version(),
					"base_per_diem": a.rates.BasePerDiem(),
					"indicators":    a.rates.Indicators(),
					"case_mix":      groups,
					"adjustments":   a.rates.Adjustments(),
				})
			}
			report.WriteRates(cmd.OutOrStdout(), a.rates)
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return report.JSON(cmd.OutOrStdout(), map[string]any{
				"file":   a.config.ConfigFileUsed(),
				"config": a.config.GetConfig(),
			})
		},
	}
	cmd.AddCommand(configInitCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with the default values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName + ".yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
