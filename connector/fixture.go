package connector

import (
	"context"
	"fmt"

	"github.com/erentorlak/storemigrate/migration"
)

func init() {
	for _, platform := range migration.SupportedPlatforms {
		p := platform
		Register(p, func(cfg migration.PlatformConfig) (Connector, error) {
			return NewFixture(p, cfg), nil
		})
	}
}

// Fixture is a deterministic in-memory connector used for development and
// analysis dry runs. Real platform API connectors register over it.
type Fixture struct {
	platform string
	cfg      migration.PlatformConfig

	// FailWith, when set, makes every fetch return this error. Tests use
	// it to exercise degraded analysis paths.
	FailWith error
}

// NewFixture creates a fixture connector for a platform.
func NewFixture(platform string, cfg migration.PlatformConfig) *Fixture {
	return &Fixture{platform: platform, cfg: cfg}
}

// GetProducts returns deterministic sample products. Every third product
// carries variants and a vendor-specific custom field so analysis sees a
// realistic complexity mix.
func (f *Fixture) GetProducts(ctx context.Context, limit int) ([]map[string]any, error) {
	if err := f.check(ctx); err != nil {
		return nil, err
	}

	products := make([]map[string]any, 0, limit)
	for i := 1; i <= limit; i++ {
		product := map[string]any{
			"id":          fmt.Sprintf("prod-%d", i),
			"title":       fmt.Sprintf("Sample Product %d", i),
			"description": "Fixture catalog item",
			"price":       9.99 + float64(i),
			"images":      imageList(i),
			"variants":    variantList(i),
		}
		if i%3 == 0 {
			product["vendor"] = "Fixture Vendor"
			product["tags"] = []any{"featured", "sale"}
		}
		products = append(products, product)
	}
	return products, nil
}

// GetCustomers returns deterministic sample customers.
func (f *Fixture) GetCustomers(ctx context.Context, limit int) ([]map[string]any, error) {
	if err := f.check(ctx); err != nil {
		return nil, err
	}

	customers := make([]map[string]any, 0, limit)
	for i := 1; i <= limit; i++ {
		customers = append(customers, map[string]any{
			"id":          fmt.Sprintf("cust-%d", i),
			"email":       fmt.Sprintf("customer%d@example.com", i),
			"first_name":  fmt.Sprintf("Customer%d", i),
			"last_name":   "Fixture",
			"orders_made": i % 5,
		})
	}
	return customers, nil
}

// GetOrders returns deterministic sample orders whose line items reference
// fixture product IDs, so relationship analysis finds real links.
func (f *Fixture) GetOrders(ctx context.Context, limit int) ([]map[string]any, error) {
	if err := f.check(ctx); err != nil {
		return nil, err
	}

	orders := make([]map[string]any, 0, limit)
	for i := 1; i <= limit; i++ {
		orders = append(orders, map[string]any{
			"id":     fmt.Sprintf("order-%d", i),
			"total":  19.99 * float64(i),
			"status": "fulfilled",
			"line_items": []any{
				map[string]any{
					"product_id": fmt.Sprintf("prod-%d", (i%10)+1),
					"quantity":   1 + i%3,
				},
			},
		})
	}
	return orders, nil
}

// GetCategories returns deterministic sample categories.
func (f *Fixture) GetCategories(ctx context.Context, limit int) ([]map[string]any, error) {
	if err := f.check(ctx); err != nil {
		return nil, err
	}

	names := []string{"Apparel", "Electronics", "Home", "Outdoors", "Beauty"}
	categories := make([]map[string]any, 0, limit)
	for i := 1; i <= limit; i++ {
		categories = append(categories, map[string]any{
			"id":   fmt.Sprintf("cat-%d", i),
			"name": names[(i-1)%len(names)],
		})
	}
	return categories, nil
}

// GetPlatformInfo returns fixture platform metadata.
func (f *Fixture) GetPlatformInfo(ctx context.Context) (map[string]any, error) {
	if err := f.check(ctx); err != nil {
		return nil, err
	}

	return map[string]any{
		"platform":  f.platform,
		"store_url": f.cfg.StoreURL,
		"version":   "fixture-1.0",
		"plan":      "standard",
	}, nil
}

func (f *Fixture) check(ctx context.Context) error {
	if f.FailWith != nil {
		return f.FailWith
	}
	return ctx.Err()
}

func imageList(i int) []any {
	count := 1 + i%4
	images := make([]any, 0, count)
	for j := 1; j <= count; j++ {
		images = append(images, map[string]any{
			"src": fmt.Sprintf("https://cdn.example.com/prod-%d/%d.jpg", i, j),
		})
	}
	return images
}

func variantList(i int) []any {
	if i%3 != 0 {
		return []any{
			map[string]any{"sku": fmt.Sprintf("SKU-%d", i), "price": 9.99 + float64(i)},
		}
	}
	return []any{
		map[string]any{"sku": fmt.Sprintf("SKU-%d-S", i), "option": "Small"},
		map[string]any{"sku": fmt.Sprintf("SKU-%d-M", i), "option": "Medium"},
		map[string]any{"sku": fmt.Sprintf("SKU-%d-L", i), "option": "Large"},
	}
}
