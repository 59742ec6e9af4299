package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"careerpath/internal"
	"careerpath/internal/config"
	"careerpath/internal/container"
	"careerpath/internal/migration"
	"careerpath/internal/normalize"
	"careerpath/internal/profiling"
	"careerpath/internal/questionnaire"
	"careerpath/internal/report"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

// datasetFlags are shared by every command that trains a model
type datasetFlags struct {
	file      string
	sheet     string
	target    string
	bank      string
	features  int
	testRatio float64
	seed      int64
	maxDepth  int
	criterion string
	verbose   bool
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Could not load .env file: %v\n", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &datasetFlags{}

	rootCmd := &cobra.Command{
		Use:           "careerpath-cli",
		Short:         "Train the career path model and run predictions from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.file, "dataset", os.Getenv("DATASET_FILE"), "Excel or CSV dataset file")
	pf.StringVar(&flags.sheet, "sheet", envOr("DATASET_SHEET", config.DefaultSheet), "Worksheet holding the data")
	pf.StringVar(&flags.target, "target", envOr("TARGET_COLUMN", config.DefaultTargetColumn), "Target column")
	pf.StringVar(&flags.bank, "questions", os.Getenv("QUESTION_BANK_FILE"), "Question bank JSON (embedded bank when empty)")
	pf.IntVar(&flags.features, "features", config.DefaultFeatureCount, "Number of features to keep")
	pf.Float64Var(&flags.testRatio, "test-ratio", config.DefaultTestRatio, "Held-out fraction")
	pf.Int64Var(&flags.seed, "seed", config.DefaultSeed, "Random seed for deterministic training")
	pf.IntVar(&flags.maxDepth, "max-depth", 0, "Maximum tree depth (0 for unlimited)")
	pf.StringVar(&flags.criterion, "criterion", envOr("TREE_CRITERION", config.DefaultCriterion), "Split criterion: gini or entropy")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log pipeline progress")

	rootCmd.AddCommand(
		newTrainCmd(flags),
		newFeaturesCmd(flags),
		newProfileCmd(flags),
		newPredictCmd(flags),
		newQuestionsCmd(flags),
		newMigrateCmd(),
	)
	return rootCmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (f *datasetFlags) config() (*config.Config, error) {
	cfg := &config.Config{
		Data: config.DataConfig{
			File:             f.file,
			Sheet:            f.sheet,
			TargetColumn:     f.target,
			QuestionBankFile: f.bank,
		},
		Model: config.ModelConfig{
			FeatureCount: f.features,
			TestRatio:    f.testRatio,
			Seed:         f.seed,
			MaxDepth:     f.maxDepth,
			Criterion:    f.criterion,
		},
		Session: config.SessionConfig{TTL: time.Hour},
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *datasetFlags) logger() *internal.Logger {
	if f.verbose {
		return internal.NewLogger(internal.LogLevelDebug, false)
	}
	return internal.NewNopLogger()
}

// build trains the pipeline with the current flags
func (f *datasetFlags) build() (*container.Container, error) {
	cfg, err := f.config()
	if err != nil {
		return nil, err
	}
	c, err := container.New(cfg, f.logger())
	if err != nil {
		return nil, err
	}
	if err := c.Init(); err != nil {
		return nil, err
	}
	return c, nil
}

func newTrainCmd(flags *datasetFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train the model and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.build()
			if err != nil {
				return err
			}
			a, err := c.Service.Artifacts()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rows:      %d (train %d, test %d)\n", a.Dataset.NumRows(), a.Model.TrainRows, a.Model.TestRows)
			fmt.Fprintf(out, "Features:  %d\n", len(a.Features()))
			fmt.Fprintf(out, "Classes:   %d\n", len(a.Registry.TargetClasses()))
			fmt.Fprintf(out, "Accuracy:  %.4f\n", a.Model.Accuracy)
			fmt.Fprintf(out, "Version:   %s\n", a.Version.Short())
			if a.Model.Clamped {
				fmt.Fprintf(out, "Note: fewer candidate columns than --features, kept all of them\n")
			}
			return nil
		},
	}
}

func newFeaturesCmd(flags *datasetFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "Print the selected features and their importances as Markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.build()
			if err != nil {
				return err
			}
			a, err := c.Service.Artifacts()
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), report.Model(a))
			return err
		},
	}
}

func newProfileCmd(flags *datasetFlags) *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile every dataset column as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			c, err := container.New(cfg, flags.logger())
			if err != nil {
				return err
			}
			ds, err := c.LoadDataset()
			if err != nil {
				return err
			}
			payload := map[string]interface{}{
				"rows":          ds.NumRows(),
				"class_balance": profiling.ClassBalance(ds),
				"columns":       profiling.NewDataProfiler(topN).ProfileDataset(ds),
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		},
	}

	cmd.Flags().IntVar(&topN, "top", 5, "Most frequent values to list per categorical column")
	return cmd
}

func newPredictCmd(flags *datasetFlags) *cobra.Command {
	var answersFile string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a career field from a JSON answers file",
		Long: `Predict a career field from a JSON object mapping feature names to answers.

Answers are numbers, category strings, or Low/Medium/High levels:

  {"GPA": 3.4, "Interest": "Technology", "Leadership_Skills": "High"}

Example: careerpath-cli predict --dataset careers.xlsx --answers answers.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := readAnswers(answersFile)
			if err != nil {
				return err
			}
			c, err := flags.build()
			if err != nil {
				return err
			}
			result, err := c.Service.Predict(cmd.Context(), resp)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), report.Prediction(result))
			return err
		},
	}

	cmd.Flags().StringVar(&answersFile, "answers", "", "JSON answers file (- for stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func readAnswers(path string) (normalize.UserResponse, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("answers must be a JSON object: %w", err)
	}
	return normalize.DecodeResponse(raw)
}

func newQuestionsCmd(flags *datasetFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Print one questionnaire for the selected features",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.build()
			if err != nil {
				return err
			}
			a, err := c.Service.Artifacts()
			if err != nil {
				return err
			}
			sess := c.Sessions.Start(a.Features())
			out := cmd.OutOrStdout()
			for i, p := range sess.Prompts() {
				fmt.Fprintf(out, "%d. [%s] %s\n", i+1, p.Feature, p.Text)
				if len(p.Options) > 0 {
					fmt.Fprintf(out, "   options: %s\n", strings.Join(p.Options, " | "))
				}
				if p.Input != nil && p.Input.Kind == questionnaire.InputNumeric {
					fmt.Fprintf(out, "   range: %g to %g\n", p.Input.Min, p.Input.Max)
				}
			}
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the prediction history schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}
			db, err := sqlx.Connect("postgres", databaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			runner := migration.NewRunner()
			if err := runner.Run(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema %s is up to date\n", runner.Version())
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection string")
	return cmd
}
