package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ashvardanian/SubstringSearchBenchmark/corpus"
	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
	"github.com/ashvardanian/SubstringSearchBenchmark/eval/benchmark"
	"github.com/ashvardanian/SubstringSearchBenchmark/eval/regression"
	"github.com/ashvardanian/SubstringSearchBenchmark/eval/telemetry"
	"github.com/ashvardanian/SubstringSearchBenchmark/ops"
	"github.com/ashvardanian/SubstringSearchBenchmark/pkg/ux"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Scenario mirrors the run flags as a YAML file, so a recurring
// configuration can live in version control instead of a shell script.
// Budget is a duration string ("500ms", "2s") since YAML has no native
// duration type.
type Scenario struct {
	Budget        string   `yaml:"budget"`
	Families      []string `yaml:"families"`
	Buckets       []int    `yaml:"buckets"`
	VerifySample  int      `yaml:"verify_sample"`
	Dataset       string   `yaml:"dataset"`
	Tokens        int      `yaml:"tokens"`
	MaxLength     int      `yaml:"max_length"`
	Alphabet      string   `yaml:"alphabet"`
	Seed          int64    `yaml:"seed"`
	SyntheticMode string   `yaml:"synthetic_mode"`
	Format        string   `yaml:"format"`
}

// corpusVariant is one labeled token slice every selected family is
// timed against.
type corpusVariant struct {
	name   string
	tokens []eval.Token
}

func runBenchmark(cmd *cobra.Command, args []string) {
	// 1. Load the scenario file, if any. Explicit flags keep priority.
	if configFlag != "" {
		data, err := os.ReadFile(configFlag)
		if err != nil {
			slog.Error("Failed to read scenario file", "path", configFlag, "error", err)
			exitCode = 1
			return
		}

		var scenario Scenario
		if err := yaml.Unmarshal(data, &scenario); err != nil {
			slog.Error("Failed to parse scenario YAML", "path", configFlag, "error", err)
			exitCode = 1
			return
		}
		if err := applyScenario(cmd, &scenario); err != nil {
			slog.Error("Invalid scenario value", "error", err)
			exitCode = 1
			return
		}
		if len(args) == 0 && scenario.Dataset != "" {
			args = []string{scenario.Dataset}
		}
	}

	// 2. Validate the measurement configuration.
	cfg := benchmark.DefaultConfig()
	cfg.TimeBudget = budgetFlag
	cfg.VerifySample = verifySampleFlag
	cfg.FailOnMismatch = failOnMismatch
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		exitCode = 1
		return
	}
	if formatFlag != "console" && formatFlag != "json" {
		slog.Error("Invalid --format. Must be 'console' or 'json'", "value", formatFlag)
		exitCode = 1
		return
	}

	// 3. Select the operation families to run.
	families, err := ops.Select(familiesFlag)
	if err != nil {
		slog.Error("Unknown family", "error", err, "known", ops.FamilyNames())
		exitCode = 1
		return
	}

	// 4. Initialize tracing. The default exporter is "none", so this is
	// a no-op unless --trace or OTEL_TRACES_EXPORTER asks for spans.
	ctx := context.Background()
	traceCfg := telemetry.DefaultConfig()
	traceCfg.ServiceVersion = version
	if traceFlag != "" {
		traceCfg.TraceExporter = traceFlag
	}
	shutdown, err := telemetry.Init(ctx, traceCfg)
	if err != nil {
		slog.Error("Failed to initialize tracing", "error", err)
		exitCode = 1
		return
	}
	defer func() {
		if shutdownErr := shutdown(context.Background()); shutdownErr != nil {
			slog.Warn("Tracer shutdown failed", "error", shutdownErr)
		}
	}()

	// 5. Build the corpus variants. A positional dataset path selects
	// real-data mode; otherwise the corpus is synthesized.
	mode := "synthetic"
	dataset := ""
	var variants []corpusVariant
	if len(args) > 0 {
		mode = "file"
		dataset = args[0]
		variants, err = fileVariants(dataset)
	} else {
		variants, err = syntheticVariants()
	}
	if err != nil {
		slog.Error("Failed to prepare corpus", "mode", mode, "error", err)
		exitCode = 1
		return
	}

	// 6. Run every family over every corpus variant.
	runID := uuid.NewString()
	report := &benchmark.RunReport{
		RunID:        runID,
		Mode:         mode,
		Dataset:      dataset,
		Capabilities: ops.Capabilities(),
		StartedAt:    time.Now().UnixMilli(),
	}

	if formatFlag == "console" {
		printRunBanner(runID, mode, dataset, families, len(variants))
	}

	driver := benchmark.NewDriver(cfg)
	driver.SetLogger(appLogger.Slog())

	for _, family := range families {
		for _, variant := range variants {
			var familyReport *benchmark.FamilyReport
			switch family.Kind {
			case ops.KindUnary:
				familyReport, err = driver.RunUnary(ctx, family.Name, variant.name,
					family.Unary, variant.tokens, family.Mode)
			case ops.KindBinary:
				familyReport, err = driver.RunBinary(ctx, family.Name, variant.name,
					family.Binary, variant.tokens)
			}
			if err != nil {
				slog.Error("Family run failed",
					"family", family.Name, "corpus", variant.name, "error", err)
				exitCode = 1
				return
			}
			report.Families = append(report.Families, familyReport)
		}
	}
	report.FinishedAt = time.Now().UnixMilli()

	// 7. Emit the report.
	if err := writeReport(report); err != nil {
		slog.Error("Failed to write report", "error", err)
		exitCode = 1
		return
	}

	// 8. Baselines: check against the saved snapshot first, then save,
	// so a snapshot is never compared against itself.
	if checkBaseline != "" || saveBaseline != "" {
		if err := handleBaselines(ctx, report); err != nil {
			slog.Error("Baseline handling failed", "error", err)
			exitCode = 1
			return
		}
	}

	// 9. Quality gates. Mismatches are reported either way; they only
	// reach the exit code when asked to.
	if formatFlag == "console" {
		timed, failed := 0, 0
		for _, familyReport := range report.Families {
			for _, result := range familyReport.Results {
				if result.Failed {
					failed++
				} else {
					timed++
				}
			}
		}
		ux.Summary(timed, failed, timed+failed)
	}
	if cfg.FailOnMismatch && report.Mismatches() > 0 {
		slog.Error("Verification mismatches detected", "count", report.Mismatches())
		exitCode = 2
	}
}

// applyScenario copies scenario values into the flag variables, except
// where the flag was given explicitly on the command line.
func applyScenario(cmd *cobra.Command, scenario *Scenario) error {
	flags := cmd.Flags()
	if scenario.Budget != "" && !flags.Changed("budget") {
		budget, err := time.ParseDuration(scenario.Budget)
		if err != nil {
			return fmt.Errorf("invalid budget %q: %w", scenario.Budget, err)
		}
		budgetFlag = budget
	}
	if len(scenario.Families) > 0 && !flags.Changed("families") {
		familiesFlag = scenario.Families
	}
	if len(scenario.Buckets) > 0 && !flags.Changed("buckets") {
		bucketsFlag = scenario.Buckets
	}
	if scenario.VerifySample > 0 && !flags.Changed("verify-sample") {
		verifySampleFlag = scenario.VerifySample
	}
	if scenario.Tokens > 0 && !flags.Changed("tokens") {
		tokensFlag = scenario.Tokens
	}
	if scenario.MaxLength > 0 && !flags.Changed("max-length") {
		maxLengthFlag = scenario.MaxLength
	}
	if scenario.Alphabet != "" && !flags.Changed("alphabet") {
		alphabetFlag = scenario.Alphabet
	}
	if scenario.Seed != 0 && !flags.Changed("seed") {
		seedFlag = scenario.Seed
	}
	if scenario.SyntheticMode != "" && !flags.Changed("synthetic-mode") {
		syntheticMode = scenario.SyntheticMode
	}
	if scenario.Format != "" && !flags.Changed("format") {
		formatFlag = scenario.Format
	}
	return nil
}

// fileVariants loads a dataset file and splits it into the standard
// corpus views plus the requested length buckets.
func fileVariants(path string) ([]corpusVariant, error) {
	c, err := corpus.Load(path)
	if err != nil {
		return nil, err
	}

	words := c.Words()
	variants := []corpusVariant{
		{name: "words", tokens: words},
		{name: "lines", tokens: c.Lines()},
		{name: "whole", tokens: c.Whole()},
	}
	return append(variants, bucketVariants(words)...), nil
}

// syntheticVariants generates a deterministic corpus and splits it into
// the requested length buckets.
func syntheticVariants() ([]corpusVariant, error) {
	mode, err := corpus.ParseMode(syntheticMode)
	if err != nil {
		return nil, err
	}

	generator := corpus.NewGenerator(seedFlag)
	tokens := generator.Tokens(tokensFlag, maxLengthFlag, alphabetFlag, mode)
	variants := []corpusVariant{{name: "synthetic", tokens: tokens}}
	return append(variants, bucketVariants(tokens)...), nil
}

// bucketVariants filters tokens into the requested exact-length buckets,
// skipping lengths the corpus does not cover.
func bucketVariants(tokens []eval.Token) []corpusVariant {
	variants := make([]corpusVariant, 0, len(bucketsFlag))
	for _, length := range bucketsFlag {
		bucket := corpus.FilterByLength(tokens, length)
		if len(bucket) == 0 {
			continue
		}
		variants = append(variants, corpusVariant{
			name:   fmt.Sprintf("len-%d", length),
			tokens: bucket,
		})
	}
	return variants
}

// writeReport renders the run report to stdout or the --output file.
// JSON to stdout is pretty-printed for reading; JSON to a file stays
// compact for downstream tooling.
func writeReport(report *benchmark.RunReport) error {
	out := os.Stdout
	if outputFlag != "" {
		f, err := os.Create(outputFlag)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				slog.Warn("Failed to close report file", "error", closeErr)
			}
		}()
		out = f
	}

	var reporter benchmark.Reporter
	if formatFlag == "json" {
		reporter = benchmark.NewJSONReporter(out, outputFlag == "")
	} else {
		reporter = benchmark.NewConsoleReporter(out, verboseFlag)
	}
	return reporter.ReportRun(report)
}

// handleBaselines runs the --check-baseline comparison and then the
// --save-baseline snapshot against the shared baseline directory.
func handleBaselines(ctx context.Context, report *benchmark.RunReport) error {
	store, err := regression.NewFileBaseline(baselineDir)
	if err != nil {
		return err
	}

	if checkBaseline != "" {
		saved, err := store.Get(ctx, checkBaseline)
		switch {
		case errors.Is(err, regression.ErrBaselineNotFound):
			ux.Warning(fmt.Sprintf("No baseline named %q to check against", checkBaseline))
		case err != nil:
			return err
		default:
			detector := regression.NewStatisticalDetector(nil, 0.05)
			result := detector.DetectSignificant(saved, report)
			for _, warning := range result.Warnings {
				ux.Warning(warning.Message)
			}
			for _, reg := range result.Regressions {
				ux.Error(reg.Message)
			}
			if result.Pass {
				ux.Success(fmt.Sprintf("No regressions against baseline %q", checkBaseline))
			} else if failOnRegression {
				exitCode = 2
			}
		}
	}

	if saveBaseline != "" {
		data := regression.FromRunReport(saveBaseline, report)
		if err := store.Set(ctx, saveBaseline, data); err != nil {
			return err
		}
		ux.Success(fmt.Sprintf("Baseline %q saved to %s", saveBaseline, baselineDir))
	}
	return nil
}

func printRunBanner(runID, mode, dataset string, families []ops.Family, variants int) {
	names := make([]string, len(families))
	for i, family := range families {
		names[i] = family.Name
	}
	capabilities := "none"
	if caps := ops.Capabilities(); len(caps) > 0 {
		capabilities = strings.Join(caps, ", ")
	}

	ux.Title("Benchtoken Run " + runID)
	ux.Field("Mode", mode)
	if dataset != "" {
		ux.Field("Dataset", dataset)
	}
	ux.Field("Budget", budgetFlag.String())
	ux.Field("Families", strings.Join(names, ", "))
	ux.Field("Corpora", strconv.Itoa(variants))
	ux.Field("CPU features", capabilities)
}
