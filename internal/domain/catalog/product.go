package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// Product represents a product in the catalog
// It is the aggregate root for catalog operations; stock is only ever
// decremented through the checkout unit of work
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null;index"`
	Description string          `gorm:"type:text"`
	Categories  pq.StringArray  `gorm:"type:text[];not null;default:'{}'"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0"`
	Images      pq.StringArray  `gorm:"type:text[];not null;default:'{}'"`
	Attributes  string          `gorm:"type:jsonb;not null;default:'{}'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, description string, price valueobject.Money, stock int) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Categories:        pq.StringArray{},
		Price:             price.Amount(),
		Stock:             stock,
		Images:            pq.StringArray{},
		Attributes:        "{}",
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update replaces the product's basic information
func (p *Product) Update(name, description string, price valueobject.Money, stock int) error {
	if err := validateName(name); err != nil {
		return err
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p.Name = name
	p.Description = description
	p.Price = price.Amount()
	p.Stock = stock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetCategories replaces the product's category labels
// Labels are trimmed and deduplicated; empty labels are rejected
func (p *Product) SetCategories(categories []string) error {
	seen := make(map[string]struct{}, len(categories))
	cleaned := make(pq.StringArray, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			return shared.NewDomainError("INVALID_CATEGORY", "Category label cannot be empty")
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cleaned = append(cleaned, c)
	}

	p.Categories = cleaned
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetImages replaces the product's image references
func (p *Product) SetImages(images []string) {
	p.Images = append(pq.StringArray{}, images...)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetAttributes sets custom attributes as a JSON object
func (p *Product) SetAttributes(attributes string) error {
	if attributes == "" {
		attributes = "{}"
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(attributes), &obj); err != nil {
		return shared.NewDomainError("INVALID_ATTRIBUTES", "Attributes must be a valid JSON object")
	}

	p.Attributes = attributes
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// DecrementStock reduces the stock by the given quantity
// Fails when the quantity is not positive or exceeds the current stock,
// so stock can never go negative
func (p *Product) DecrementStock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if qty > p.Stock {
		return shared.NewInsufficientStockError(p.Name, qty, p.Stock)
	}

	p.Stock -= qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// HasStock returns true if at least qty units are available
func (p *Product) HasStock(qty int) bool {
	return qty > 0 && p.Stock >= qty
}

// HasCategory returns true if the product carries the given category label
func (p *Product) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// CategorySet returns the product's categories as a set
func (p *Product) CategorySet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Categories))
	for _, c := range p.Categories {
		set[c] = struct{}{}
	}
	return set
}

// GetPriceMoney returns the price as a Money value object
func (p *Product) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

// validateName validates the product name
func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
