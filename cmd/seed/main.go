// Command seed loads reference data and sample products into the database
// configured for the server.
//
//	seed fixtures [--file fixtures.yaml]
//	seed products --count 200 --seed 42
//	seed all
package main

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/secureshop/backend/internal/infrastructure/config"
	"github.com/secureshop/backend/internal/infrastructure/logger"
	"github.com/secureshop/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//go:embed fixtures.yaml
var defaultFixture []byte

type app struct {
	fixturePath string
	logLevel    string
	products    ProductOptions

	log    *zap.Logger
	db     *persistence.Database
	seeder *Seeder
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "seed",
		Short:         "Seed the SecureShop database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	fixtures := &cobra.Command{
		Use:   "fixtures",
		Short: "Create categories, brands and discounts from a YAML fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runFixtures(cmd.Context())
		},
	}
	fixtures.Flags().StringVarP(&a.fixturePath, "file", "f", "", "Fixture file (default: built-in fixture)")

	products := &cobra.Command{
		Use:   "products",
		Short: "Generate fake products with opening stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runProducts(cmd.Context())
		},
	}
	addProductFlags(products, &a.products)

	all := &cobra.Command{
		Use:   "all",
		Short: "Apply the fixture, then generate products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.runFixtures(cmd.Context()); err != nil {
				return err
			}
			return a.runProducts(cmd.Context())
		},
	}
	all.Flags().StringVarP(&a.fixturePath, "file", "f", "", "Fixture file (default: built-in fixture)")
	addProductFlags(all, &a.products)

	root.AddCommand(fixtures, products, all)
	return root
}

func addProductFlags(cmd *cobra.Command, opts *ProductOptions) {
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 50, "Number of products to generate")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "Random seed, 0 for a random catalogue")
	cmd.Flags().IntVar(&opts.MinStock, "min-stock", 0, "Minimum opening stock per product")
	cmd.Flags().IntVar(&opts.MaxStock, "max-stock", 200, "Maximum opening stock per product")
}

func (a *app) open() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a.log, err = logger.New(&logger.Config{
		Level:      a.logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	a.db, err = persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		if err := a.db.AutoMigrate(); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}

	a.seeder = newSeederFor(a.db, a.log)
	a.log.Info("Connected", zap.String("driver", cfg.Database.Driver))
	return nil
}

func newSeederFor(db *persistence.Database, log *zap.Logger) *Seeder {
	return NewSeeder(
		persistence.NewGormCategoryRepository(db.DB),
		persistence.NewGormBrandRepository(db.DB),
		persistence.NewGormProductRepository(db.DB),
		persistence.NewGormInventoryRepository(db.DB),
		persistence.NewGormMovementRepository(db.DB),
		persistence.NewGormDiscountRepository(db.DB),
		persistence.NewTxManager(db.DB),
		log,
	)
}

func (a *app) close() error {
	if a.log != nil {
		defer func() { _ = logger.Sync(a.log) }()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *app) runFixtures(ctx context.Context) error {
	var r io.Reader = bytes.NewReader(defaultFixture)
	if a.fixturePath != "" {
		f, err := os.Open(a.fixturePath)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	fixture, err := LoadFixture(r)
	if err != nil {
		return err
	}
	sum, err := a.seeder.ApplyFixture(ctx, fixture)
	if err != nil {
		return err
	}
	a.log.Info("Fixture applied",
		zap.Int("categories", sum.Categories),
		zap.Int("brands", sum.Brands),
		zap.Int("discounts", sum.Discounts),
		zap.Int("skipped", sum.Skipped),
	)
	return nil
}

func (a *app) runProducts(ctx context.Context) error {
	_, err := a.seeder.GenerateProducts(ctx, a.products)
	return err
}
