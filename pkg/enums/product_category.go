package enums

// ProductCategory groups riding gear in the catalog.
type ProductCategory string

const (
	ProductCategoryHelmet         ProductCategory = "helmet"
	ProductCategoryJacket         ProductCategory = "jacket"
	ProductCategoryGloves         ProductCategory = "gloves"
	ProductCategoryBoots          ProductCategory = "boots"
	ProductCategoryRidingPants    ProductCategory = "riding_pants"
	ProductCategoryProtectiveGear ProductCategory = "protective_gear"
	ProductCategoryAccessories    ProductCategory = "accessories"
	ProductCategorySpareParts     ProductCategory = "spare_parts"
	ProductCategoryMotorcycle     ProductCategory = "motorcycle"
)

var validProductCategories = []ProductCategory{
	ProductCategoryHelmet,
	ProductCategoryJacket,
	ProductCategoryGloves,
	ProductCategoryBoots,
	ProductCategoryRidingPants,
	ProductCategoryProtectiveGear,
	ProductCategoryAccessories,
	ProductCategorySpareParts,
	ProductCategoryMotorcycle,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string { return string(c) }

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool { return contains(validProductCategories, c) }

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	return parse(validProductCategories, value, "product category")
}

func ProductCategoryValues() []string { return stringsOf(validProductCategories) }
