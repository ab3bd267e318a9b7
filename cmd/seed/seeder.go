package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/inventory"
	"github.com/secureshop/backend/internal/domain/promotion"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Fixture is the reference data loaded from YAML
type Fixture struct {
	Categories []CategoryFixture `yaml:"categories"`
	Brands     []BrandFixture    `yaml:"brands"`
	Discounts  []DiscountFixture `yaml:"discounts"`
}

type CategoryFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

type BrandFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Logo        string `yaml:"logo"`
}

// DiscountFixture amounts are strings so they parse as exact decimals
type DiscountFixture struct {
	Code          string `yaml:"code"`
	Description   string `yaml:"description"`
	Type          string `yaml:"type"`
	Value         string `yaml:"value"`
	MinOrderValue string `yaml:"minOrderValue"`
	MaxUsage      *int   `yaml:"maxUsage"`
	PerUserLimit  *int   `yaml:"perUserLimit"`
	ValidDays     int    `yaml:"validDays"`
}

// LoadFixture decodes a fixture, rejecting unknown keys
func LoadFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

func (d DiscountFixture) input(now time.Time) (promotion.DiscountInput, error) {
	value, err := decimal.NewFromString(d.Value)
	if err != nil {
		return promotion.DiscountInput{}, fmt.Errorf("discount %s value: %w", d.Code, err)
	}
	in := promotion.DiscountInput{
		Code:         promotion.NormalizeCode(d.Code),
		Description:  d.Description,
		Type:         promotion.DiscountType(strings.ToUpper(d.Type)),
		Value:        value,
		MaxUsage:     d.MaxUsage,
		PerUserLimit: d.PerUserLimit,
		StartsAt:     now,
		EndsAt:       now.AddDate(0, 0, max(d.ValidDays, 1)),
		Active:       true,
	}
	if d.MinOrderValue != "" {
		minValue, err := decimal.NewFromString(d.MinOrderValue)
		if err != nil {
			return promotion.DiscountInput{}, fmt.Errorf("discount %s minOrderValue: %w", d.Code, err)
		}
		in.MinOrderValue = &minValue
	}
	return in, nil
}

// Summary counts what a run created and skipped
type Summary struct {
	Categories int
	Brands     int
	Discounts  int
	Products   int
	Skipped    int
}

// Seeder writes reference and sample data through the domain repositories
type Seeder struct {
	categories catalog.CategoryRepository
	brands     catalog.BrandRepository
	products   catalog.ProductRepository
	stock      inventory.Repository
	movements  inventory.MovementRepository
	discounts  promotion.Repository
	tx         shared.Transactor
	now        func() time.Time
	logger     *zap.Logger
}

// NewSeeder creates a Seeder
func NewSeeder(
	categories catalog.CategoryRepository,
	brands catalog.BrandRepository,
	products catalog.ProductRepository,
	stock inventory.Repository,
	movements inventory.MovementRepository,
	discounts promotion.Repository,
	tx shared.Transactor,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{
		categories: categories,
		brands:     brands,
		products:   products,
		stock:      stock,
		movements:  movements,
		discounts:  discounts,
		tx:         tx,
		now:        time.Now,
		logger:     logger,
	}
}

// ApplyFixture creates every fixture entry that does not exist yet
func (s *Seeder) ApplyFixture(ctx context.Context, f *Fixture) (Summary, error) {
	var sum Summary
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, c := range f.Categories {
			exists, err := s.categories.ExistsByName(ctx, c.Name, nil)
			if err != nil {
				return err
			}
			if exists {
				sum.Skipped++
				continue
			}
			category, err := catalog.NewCategory(c.Name, c.Description, c.Image)
			if err != nil {
				return fmt.Errorf("category %q: %w", c.Name, err)
			}
			if err := s.categories.Create(ctx, category); err != nil {
				return err
			}
			sum.Categories++
		}

		for _, b := range f.Brands {
			exists, err := s.brands.ExistsByName(ctx, b.Name, nil)
			if err != nil {
				return err
			}
			if exists {
				sum.Skipped++
				continue
			}
			brand, err := catalog.NewBrand(b.Name, b.Description, b.Logo)
			if err != nil {
				return fmt.Errorf("brand %q: %w", b.Name, err)
			}
			if err := s.brands.Create(ctx, brand); err != nil {
				return err
			}
			sum.Brands++
		}

		for _, d := range f.Discounts {
			in, err := d.input(s.now())
			if err != nil {
				return err
			}
			exists, err := s.discounts.ExistsByCode(ctx, in.Code, nil)
			if err != nil {
				return err
			}
			if exists {
				sum.Skipped++
				continue
			}
			discount, err := promotion.NewDiscount(in)
			if err != nil {
				return fmt.Errorf("discount %q: %w", d.Code, err)
			}
			if err := s.discounts.Create(ctx, discount); err != nil {
				return err
			}
			sum.Discounts++
		}
		return nil
	})
	return sum, err
}

// ProductOptions control fake product generation
type ProductOptions struct {
	Count    int
	Seed     uint64
	MinStock int
	MaxStock int
}

// GenerateProducts creates opts.Count fake products spread over the active
// categories and brands, each with an opening stock movement. The same seed
// produces the same catalogue.
func (s *Seeder) GenerateProducts(ctx context.Context, opts ProductOptions) (Summary, error) {
	var sum Summary
	if opts.Count <= 0 {
		return sum, nil
	}
	if opts.MaxStock < opts.MinStock {
		opts.MaxStock = opts.MinStock
	}

	categories, err := s.categories.FindAll(ctx, true)
	if err != nil {
		return sum, err
	}
	brands, err := s.brands.FindAll(ctx, true)
	if err != nil {
		return sum, err
	}

	faker := gofakeit.New(opts.Seed)
	for i := 0; i < opts.Count; i++ {
		in, err := s.fakeProduct(ctx, faker, categories, brands)
		if err != nil {
			return sum, err
		}
		product, err := catalog.NewProduct(in)
		if err != nil {
			return sum, fmt.Errorf("product %s: %w", in.SKU, err)
		}
		onHand := faker.IntRange(opts.MinStock, opts.MaxStock)

		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.products.Create(ctx, product); err != nil {
				return err
			}
			stock, err := inventory.NewInventory(product.ID, 0)
			if err != nil {
				return err
			}
			if onHand == 0 {
				return s.stock.Create(ctx, stock)
			}
			movement, err := stock.Adjust(onHand, "Opening stock")
			if err != nil {
				return err
			}
			if err := s.stock.Create(ctx, stock); err != nil {
				return err
			}
			return s.movements.Append(ctx, movement)
		})
		if err != nil {
			return sum, fmt.Errorf("product %s: %w", in.SKU, err)
		}
		sum.Products++
	}
	s.logger.Info("Generated products", zap.Int("count", sum.Products), zap.Uint64("seed", opts.Seed))
	return sum, nil
}

func (s *Seeder) fakeProduct(ctx context.Context, f *gofakeit.Faker, categories []*catalog.Category, brands []*catalog.Brand) (catalog.ProductInput, error) {
	sku, err := s.freeSKU(ctx, f)
	if err != nil {
		return catalog.ProductInput{}, err
	}

	// whole thousands of VND, list price up to 30% above the selling price
	price := decimal.NewFromInt(int64(f.IntRange(50, 40_000)) * 1000)
	markup := decimal.NewFromInt(int64(f.IntRange(0, 30))).Div(decimal.NewFromInt(100))
	listed := price.Mul(decimal.NewFromInt(1).Add(markup)).Div(decimal.NewFromInt(1000)).Round(0).Mul(decimal.NewFromInt(1000))

	in := catalog.ProductInput{
		SKU:              sku,
		Name:             f.ProductName(),
		ShortDescription: truncate(f.ProductFeature()+". "+f.ProductDescription(), 200),
		Description:      truncate(f.ProductDescription(), 5000),
		ListedPrice:      listed,
		Price:            price,
		Active:           f.Float64() > 0.1,
		ThumbnailURL:     fmt.Sprintf("https://picsum.photos/seed/%s/600/600", strings.ToLower(sku)),
		Features:         []string{f.ProductFeature(), f.ProductFeature(), f.ProductFeature()},
		Specifications: map[string]string{
			"material": f.ProductMaterial(),
			"upc":      f.ProductUPC(),
			"color":    f.Color(),
		},
	}
	if len(categories) > 0 {
		id := categories[f.IntN(len(categories))].ID
		in.CategoryID = &id
	}
	if len(brands) > 0 {
		id := brands[f.IntN(len(brands))].ID
		in.BrandID = &id
	}
	return in, nil
}

func (s *Seeder) freeSKU(ctx context.Context, f *gofakeit.Faker) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		sku := fmt.Sprintf("SS-%s-%05d", strings.ToUpper(f.LetterN(3)), f.IntRange(0, 99_999))
		taken, err := s.products.ExistsBySKU(ctx, sku, nil)
		if err != nil {
			return "", err
		}
		if !taken {
			return sku, nil
		}
	}
	// collisions keep happening; fall back to a random suffix
	return "SS-" + strings.ToUpper(uuid.NewString()[:13]), nil
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
