package restdb

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aggarwalComputronix/website/internal/domain"
)

// Hosted rows keep option groups as numbered flat columns
// (productOptionName1..6, additionalInfoTitle1..6, customTextField1..2).
const maxCustomText = 2

func textOrNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// encodeRecord flattens a product into the hosted column layout.
// id and created_at are left to the server.
func encodeRecord(p domain.Product) map[string]any {
	rec := map[string]any{
		"handleId":        textOrNull(p.HandleID),
		"fieldType":       textOrNull(p.FieldType),
		"name":            p.Name,
		"description":     textOrNull(p.Description),
		"productImageUrl": textOrNull(p.ProductImageURL),
		"collection":      textOrNull(p.Collection),
		"sku":             textOrNull(p.SKU),
		"ribbon":          textOrNull(p.Ribbon),
		"price":           p.Price,
		"surcharge":       p.Surcharge,
		"visible":         p.Visible,
		"discountMode":    textOrNull(p.DiscountMode),
		"discountValue":   p.DiscountValue,
		"inventory":       p.Inventory,
		"weight":          p.Weight,
		"cost":            p.Cost,
		"type":            textOrNull(p.Type),
		"brand":           textOrNull(p.Brand),
	}

	for i := 1; i <= domain.MaxProductOptions; i++ {
		var opt domain.ProductOption
		if i <= len(p.Options) {
			opt = p.Options[i-1]
		}
		n := strconv.Itoa(i)
		rec["productOptionName"+n] = textOrNull(opt.Name)
		rec["productOptionType"+n] = textOrNull(opt.Type)
		rec["productOptionDescription"+n] = textOrNull(opt.Description)

		var info domain.AdditionalInfo
		if i <= len(p.AdditionalInfo) {
			info = p.AdditionalInfo[i-1]
		}
		rec["additionalInfoTitle"+n] = textOrNull(info.Title)
		rec["additionalInfoDescription"+n] = textOrNull(info.Description)
	}

	for i := 1; i <= maxCustomText; i++ {
		var ct domain.CustomText
		if i <= len(p.CustomText) {
			ct = p.CustomText[i-1]
		}
		n := strconv.Itoa(i)
		rec["customTextField"+n] = textOrNull(ct.Field)
		rec["customTextCharLimit"+n] = ct.CharLimit
		rec["customTextMandatory"+n] = ct.Mandatory
	}

	return rec
}

// row is one decoded hosted row with lenient typed accessors
type row map[string]json.RawMessage

func (r row) text(key string) string {
	var s *string
	if raw, ok := r[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	if s == nil {
		return ""
	}
	return *s
}

func (r row) float(key string) *float64 {
	var f *float64
	if raw, ok := r[key]; ok {
		_ = json.Unmarshal(raw, &f)
	}
	return f
}

func (r row) integer(key string) *int {
	f := r.float(key)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

func (r row) boolean(key string) *bool {
	var b *bool
	if raw, ok := r[key]; ok {
		_ = json.Unmarshal(raw, &b)
	}
	return b
}

// decodeRecord rebuilds a product from a hosted row. Empty option groups are dropped.
func decodeRecord(r row) (domain.Product, error) {
	var id int64
	raw, ok := r["id"]
	if !ok {
		return domain.Product{}, fmt.Errorf("row has no id")
	}
	if err := json.Unmarshal(raw, &id); err != nil {
		return domain.Product{}, fmt.Errorf("decode id: %w", err)
	}

	p := domain.Product{
		ID:              id,
		HandleID:        r.text("handleId"),
		FieldType:       r.text("fieldType"),
		Name:            r.text("name"),
		Description:     r.text("description"),
		ProductImageURL: r.text("productImageUrl"),
		Collection:      r.text("collection"),
		SKU:             r.text("sku"),
		Ribbon:          r.text("ribbon"),
		Price:           r.float("price"),
		Surcharge:       r.float("surcharge"),
		Visible:         r.boolean("visible"),
		DiscountMode:    r.text("discountMode"),
		DiscountValue:   r.float("discountValue"),
		Inventory:       r.integer("inventory"),
		Weight:          r.float("weight"),
		Cost:            r.float("cost"),
		Type:            r.text("type"),
		Brand:           r.text("brand"),
	}

	for i := 1; i <= domain.MaxProductOptions; i++ {
		n := strconv.Itoa(i)
		opt := domain.ProductOption{
			Name:        r.text("productOptionName" + n),
			Type:        r.text("productOptionType" + n),
			Description: r.text("productOptionDescription" + n),
		}
		if opt != (domain.ProductOption{}) {
			p.Options = append(p.Options, opt)
		}

		info := domain.AdditionalInfo{
			Title:       r.text("additionalInfoTitle" + n),
			Description: r.text("additionalInfoDescription" + n),
		}
		if info != (domain.AdditionalInfo{}) {
			p.AdditionalInfo = append(p.AdditionalInfo, info)
		}
	}

	for i := 1; i <= maxCustomText; i++ {
		n := strconv.Itoa(i)
		ct := domain.CustomText{
			Field:     r.text("customTextField" + n),
			CharLimit: r.integer("customTextCharLimit" + n),
			Mandatory: r.boolean("customTextMandatory" + n),
		}
		if ct.Field != "" || ct.CharLimit != nil || ct.Mandatory != nil {
			p.CustomText = append(p.CustomText, ct)
		}
	}

	if created := r.text("created_at"); created != "" {
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			p.CreatedAt = ts
		}
	}

	return p, nil
}
