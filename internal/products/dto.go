package products

import (
	"io"
	"strings"

	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/types"
)

// ImageUpload is a product image read from a multipart form.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// CreateProductInput is a validated product creation request. SupplierID is
// the authenticated caller.
type CreateProductInput struct {
	Name          string
	Description   string
	Price         types.Money
	Category      enums.ProductCategory
	StockQuantity int
	SupplierID    uint
	Image         *ImageUpload
}

func (in CreateProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validatePrice(in.Price); err != nil {
		return err
	}
	if !in.Category.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid category %q", in.Category)
	}
	if in.StockQuantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stockQuantity cannot be negative")
	}
	if in.Image == nil || in.Image.Body == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	}
	return nil
}

// UpdateProductInput carries a partial update; nil fields are left unchanged.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *types.Money
	Category      *enums.ProductCategory
	StockQuantity *int
	Image         *ImageUpload
}

func (in UpdateProductInput) fields() (map[string]any, error) {
	fields := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		fields["name"] = name
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
		fields["price"] = *in.Price
	}
	if in.Category != nil {
		if !in.Category.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid category %q", *in.Category)
		}
		fields["category"] = *in.Category
	}
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stockQuantity cannot be negative")
		}
		fields["stock_quantity"] = *in.StockQuantity
	}
	return fields, nil
}

// SearchQuery matches name and description as case-insensitive substrings
// and price and category exactly. Empty criteria match everything.
type SearchQuery struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Price       *types.Money           `json:"price"`
	Category    *enums.ProductCategory `json:"category"`
}

// ListFilter narrows the catalog listing.
type ListFilter struct {
	Category   *enums.ProductCategory
	SupplierID *uint
}

func validatePrice(price types.Money) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if err := price.CheckRange(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price is too large")
	}
	return nil
}
