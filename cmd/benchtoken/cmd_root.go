package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ashvardanian/SubstringSearchBenchmark/corpus"
	"github.com/ashvardanian/SubstringSearchBenchmark/pkg/logging"
	"github.com/ashvardanian/SubstringSearchBenchmark/pkg/ux"
	"github.com/spf13/cobra"
)

// version is the binary version, also attached to traces.
var version = "1.0.0"

// appLogger is rebuilt in PersistentPreRun once --log-level is known.
var appLogger = logging.Default()

// --- Global Command Variables ---
var (
	budgetFlag       time.Duration
	familiesFlag     []string
	bucketsFlag      []int
	verifySampleFlag int
	failOnMismatch   bool
	formatFlag       string
	outputFlag       string
	verboseFlag      bool
	tokensFlag       int
	maxLengthFlag    int
	alphabetFlag     string
	seedFlag         int64
	syntheticMode    string
	saveBaseline     string
	checkBaseline    string
	baselineDir      string
	failOnRegression bool
	traceFlag        string
	logLevelFlag     string
	configFlag       string
	outputModeFlag   string // Output style (styled/plain/machine)

	rootCmd = &cobra.Command{
		Use:   "benchtoken",
		Short: "A comparative micro-benchmark harness for short-string token operations",
		Long: `Benchtoken times competing implementations of short-string operations
(checksum, hash, equality, case-insensitive equality, ordering, dereference
cost) over a shared corpus, verifies the accelerated variants against a
scalar baseline, and reports which one wins with statistical significance.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize output mode from flag or environment
			if outputModeFlag != "" {
				ux.SetOutputMode(ux.ParseOutputMode(outputModeFlag))
			} else {
				ux.InitOutputMode()
			}

			level := logging.LevelInfo
			if logLevelFlag != "" {
				parsed, err := logging.ParseLevel(logLevelFlag)
				if err != nil {
					ux.Warning(fmt.Sprintf("Unknown log level %q, using info", logLevelFlag))
				} else {
					level = parsed
				}
			}
			appLogger = logging.New(logging.Config{Level: level, Service: "cli"})
			slog.SetDefault(appLogger.Slog())
		},
	}

	// --- Benchmark Runs ---
	runCmd = &cobra.Command{
		Use:   "run [dataset.txt]",
		Short: "Run the benchmark suite over a synthetic corpus or a dataset file",
		Args:  cobra.MaximumNArgs(1),
		Run:   runBenchmark, // Defined in cmd_run.go
	}

	// --- Catalog ---
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the candidate catalog per family with detected CPU capabilities",
		Run:   runList, // Defined in cmd_list.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the benchtoken version",
		Run:   runVersion,
	}
)

// init runs when the Go program starts
func init() {
	// Global output, logging, and tracing flags
	rootCmd.PersistentFlags().StringVar(&outputModeFlag, "output-mode", "",
		"Output style: styled (default), plain, or machine (scripting)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log verbosity: debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&traceFlag, "trace", "",
		"Trace exporter: 'stdout' or 'none' (default from OTEL_TRACES_EXPORTER)")

	rootCmd.AddCommand(runCmd)
	runCmd.Flags().DurationVar(&budgetFlag, "budget", time.Second,
		"Wall-clock budget per candidate timing pass")
	runCmd.Flags().StringSliceVar(&familiesFlag, "families", nil,
		"Operation families to run (default: all)")
	runCmd.Flags().IntSliceVar(&bucketsFlag, "buckets",
		[]int{1, 2, 3, 4, 5, 6, 7, 8, 16, 32},
		"Exact token lengths to time as separate corpus buckets")
	runCmd.Flags().IntVar(&verifySampleFlag, "verify-sample", 1024,
		"Corpus elements sampled when verifying a candidate against the baseline")
	runCmd.Flags().BoolVar(&failOnMismatch, "fail-on-mismatch", false,
		"Exit non-zero when a candidate fails verification")
	runCmd.Flags().StringVar(&formatFlag, "format", "console",
		"Report format: 'console' or 'json'")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", "",
		"Write the report to a file instead of stdout")
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"Include latency percentiles in console reports")
	runCmd.Flags().IntVar(&tokensFlag, "tokens", 100000,
		"Synthetic corpus size in tokens")
	runCmd.Flags().IntVar(&maxLengthFlag, "max-length", 32,
		"Maximum synthetic token length in bytes")
	runCmd.Flags().StringVar(&alphabetFlag, "alphabet", corpus.DefaultAlphabet,
		"Alphabet for synthetic letter tokens")
	runCmd.Flags().Int64Var(&seedFlag, "seed", 42,
		"Seed for the deterministic synthetic generator")
	runCmd.Flags().StringVar(&syntheticMode, "synthetic-mode", "letters",
		"Synthetic token style: 'letters' (uniform random) or 'words' (dictionary)")
	runCmd.Flags().StringVar(&saveBaseline, "save-baseline", "",
		"Save this run's results as a named baseline")
	runCmd.Flags().StringVar(&checkBaseline, "check-baseline", "",
		"Compare this run against a named baseline and report regressions")
	runCmd.Flags().StringVar(&baselineDir, "baseline-dir", ".benchtoken/baselines",
		"Directory holding saved baselines")
	runCmd.Flags().BoolVar(&failOnRegression, "fail-on-regression", false,
		"Exit non-zero when a baseline check finds regressions")
	runCmd.Flags().StringVar(&configFlag, "config", "",
		"Path to scenario configuration file (YAML); explicit flags override it")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
}

func runVersion(_ *cobra.Command, _ []string) {
	fmt.Printf("benchtoken %s\n", version)
}
