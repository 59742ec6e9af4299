package container

import (
	"context"
	"fmt"
	"time"

	"careerpath/adapters/excel"
	"careerpath/adapters/postgres"
	"careerpath/domain/dataset"
	"careerpath/internal"
	"careerpath/internal/config"
	"careerpath/internal/errors"
	"careerpath/internal/migration"
	"careerpath/internal/pipeline"
	"careerpath/internal/questionnaire"
	"careerpath/internal/selection"
	"careerpath/internal/tree"
	"careerpath/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories
	PredictionRepo ports.PredictionRepository

	// Pipeline and questionnaire
	Service  *pipeline.Service
	Bank     *questionnaire.Bank
	Sessions *questionnaire.Manager
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Container{Config: cfg, Logger: logger}, nil
}

// InitWithDatabase migrates the schema and enables prediction history
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		return err
	}

	c.DB = db
	c.PredictionRepo = postgres.NewPredictionRepository(db)
	c.Logger.Info("[Container] prediction history enabled (schema %s)", runner.Version())
	return nil
}

// LoadDataset reads the configured workbook
func (c *Container) LoadDataset() (*dataset.Dataset, error) {
	reader := excel.NewDataReader(excel.ExcelConfig{
		FilePath:     c.Config.Data.File,
		Sheet:        c.Config.Data.Sheet,
		TargetColumn: c.Config.Data.TargetColumn,
	}, c.Logger)
	return reader.Load()
}

// TrainingConfig maps the model settings onto the trainer's hyperparameters
func (c *Container) TrainingConfig() selection.Config {
	cfg := selection.DefaultConfig()
	cfg.FeatureCount = c.Config.Model.FeatureCount
	cfg.TestRatio = c.Config.Model.TestRatio
	cfg.Seed = c.Config.Model.Seed
	cfg.MaxDepth = c.Config.Model.MaxDepth
	if c.Config.Model.Criterion != "" {
		cfg.Criterion = tree.Criterion(c.Config.Model.Criterion)
	}
	return cfg
}

// Init loads the dataset, trains the pipeline and prepares the questionnaire
func (c *Container) Init() error {
	ds, err := c.LoadDataset()
	if err != nil {
		return err
	}

	var opts []pipeline.Option
	if c.PredictionRepo != nil {
		opts = append(opts, pipeline.WithHistory(c.PredictionRepo))
	}
	c.Service = pipeline.NewService(c.Logger, opts...)
	if _, err := c.Service.Train(ds, c.TrainingConfig()); err != nil {
		return err
	}

	c.Bank, err = c.loadBank()
	if err != nil {
		return err
	}
	c.Sessions = questionnaire.NewManager(c.Bank, c.Config.Session.TTL, c.Logger)
	return nil
}

func (c *Container) loadBank() (*questionnaire.Bank, error) {
	if c.Config.Data.QuestionBankFile == "" {
		return questionnaire.DefaultBank()
	}
	bank, err := questionnaire.LoadBank(c.Config.Data.QuestionBankFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load question bank %s", c.Config.Data.QuestionBankFile)
	}
	return bank, nil
}

// StartBackground launches the idle session sweeper
func (c *Container) StartBackground(ctx context.Context) {
	if c.Sessions == nil {
		return
	}
	interval := c.Config.Session.TTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	go c.Sessions.Run(ctx, interval)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if err := c.Logger.Sync(); err != nil {
		c.Logger.Debug("[Container] logger sync: %v", err)
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
