package domain

import "time"

// InventoryInStock is stored when a spreadsheet marks a row "in stock"
// instead of giving a count.
const InventoryInStock = 99999

// MaxProductOptions is the number of option column groups a product sheet carries.
const MaxProductOptions = 6

// Product types shown on the products page
const (
	ProductTypeOriginal   = "original"
	ProductTypeCompatible = "compatible"
)

// Product represents one catalog row as stored by the data store.
// Nullable spreadsheet columns are pointers.
type Product struct {
	ID              int64    `json:"id"`
	HandleID        string   `json:"handleId,omitempty"`
	FieldType       string   `json:"fieldType,omitempty"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	ProductImageURL string   `json:"productImageUrl,omitempty"`
	Collection      string   `json:"collection,omitempty"`
	SKU             string   `json:"sku,omitempty"`
	Ribbon          string   `json:"ribbon,omitempty"`
	Price           *float64 `json:"price"`
	Surcharge       *float64 `json:"surcharge,omitempty"`
	Visible         *bool    `json:"visible,omitempty"`
	DiscountMode    string   `json:"discountMode,omitempty"`
	DiscountValue   *float64 `json:"discountValue,omitempty"`
	Inventory       *int     `json:"inventory,omitempty"`
	Weight          *float64 `json:"weight,omitempty"`
	Cost            *float64 `json:"cost,omitempty"`
	Type            string   `json:"type,omitempty"`
	Brand           string   `json:"brand,omitempty"`

	Options        []ProductOption  `json:"options,omitempty"`
	AdditionalInfo []AdditionalInfo `json:"additionalInfo,omitempty"`
	CustomText     []CustomText     `json:"customText,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// ProductOption is one productOptionName/Type/Description column group
type ProductOption struct {
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// AdditionalInfo is one additionalInfoTitle/Description column group
type AdditionalInfo struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// CustomText is one customTextField/CharLimit/Mandatory column group
type CustomText struct {
	Field     string `json:"field,omitempty"`
	CharLimit *int   `json:"charLimit,omitempty"`
	Mandatory *bool  `json:"mandatory,omitempty"`
}

// Searchable is anything the catalog matcher can look into.
type Searchable interface {
	SearchFields() []string
}

// SearchFields returns the free-text fields in match order:
// name, brand, sku, description, then option descriptions.
func (p *Product) SearchFields() []string {
	if p == nil {
		return nil
	}
	fields := make([]string, 0, 4+len(p.Options))
	fields = append(fields, p.Name, p.Brand, p.SKU, p.Description)
	for _, opt := range p.Options {
		fields = append(fields, opt.Description)
	}
	return fields
}

// InStock reports whether the inventory column holds the in-stock sentinel.
func (p *Product) InStock() bool {
	return p.Inventory != nil && *p.Inventory == InventoryInStock
}

// ProductFilter narrows the candidate set at the store before text search.
type ProductFilter struct {
	// Collections is an inclusion set on the stored collection value; empty means any.
	Collections []string
	// Type restricts to original/compatible; empty means any.
	Type string
}

// IsZero reports whether the filter matches everything
func (f ProductFilter) IsZero() bool {
	return len(f.Collections) == 0 && f.Type == ""
}

// SearchRequest represents a catalog search from the storefront
type SearchRequest struct {
	Query    string `form:"q" json:"q"`
	Category string `form:"category" json:"category"`
	Type     string `form:"type" json:"type"`
	Limit    int    `form:"limit" json:"limit"`
	Offset   int    `form:"offset" json:"offset"`
}

// SearchResult is one page of matched products
type SearchResult struct {
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
	Items  []Product `json:"items"`
}

// Clone returns a copy that shares no slices or pointers with p
func (p Product) Clone() Product {
	out := p
	out.Price = cloneFloat(p.Price)
	out.Surcharge = cloneFloat(p.Surcharge)
	out.DiscountValue = cloneFloat(p.DiscountValue)
	out.Weight = cloneFloat(p.Weight)
	out.Cost = cloneFloat(p.Cost)
	if p.Visible != nil {
		v := *p.Visible
		out.Visible = &v
	}
	if p.Inventory != nil {
		v := *p.Inventory
		out.Inventory = &v
	}
	if p.Options != nil {
		out.Options = append([]ProductOption(nil), p.Options...)
	}
	if p.AdditionalInfo != nil {
		out.AdditionalInfo = append([]AdditionalInfo(nil), p.AdditionalInfo...)
	}
	if p.CustomText != nil {
		out.CustomText = make([]CustomText, len(p.CustomText))
		for i, ct := range p.CustomText {
			out.CustomText[i] = CustomText{Field: ct.Field}
			if ct.CharLimit != nil {
				v := *ct.CharLimit
				out.CustomText[i].CharLimit = &v
			}
			if ct.Mandatory != nil {
				v := *ct.Mandatory
				out.CustomText[i].Mandatory = &v
			}
		}
	}
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
