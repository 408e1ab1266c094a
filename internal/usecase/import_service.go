package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aggarwalComputronix/website/internal/domain"
	"go.uber.org/zap"
)

const importBatchSize = 500

var (
	leadingFloatRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	leadingIntRegex   = regexp.MustCompile(`^[+-]?\d+`)
)

// ImportReport summarizes one spreadsheet upload
type ImportReport struct {
	Rows     int `json:"rows"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	// SkippedRows are 1-based data row numbers (header excluded) that had no name
	SkippedRows []int `json:"skippedRows,omitempty"`
}

// ImportService bulk-loads products from spreadsheet rows
type ImportService struct {
	store   domain.ProductStore
	catalog *CatalogService
	logger  *zap.Logger
}

// NewImportService creates an import service; catalog may be nil when nothing is cached
func NewImportService(store domain.ProductStore, catalog *CatalogService, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{store: store, catalog: catalog, logger: logger}
}

// Import coerces header-keyed rows into products and inserts them in batches
func (s *ImportService) Import(ctx context.Context, rows []map[string]string) (*ImportReport, error) {
	report := &ImportReport{Rows: len(rows)}

	products := make([]domain.Product, 0, len(rows))
	for i, row := range rows {
		p := ProductFromRow(row)
		if strings.TrimSpace(p.Name) == "" {
			report.Skipped++
			report.SkippedRows = append(report.SkippedRows, i+1)
			continue
		}
		products = append(products, p)
	}

	for start := 0; start < len(products); start += importBatchSize {
		end := start + importBatchSize
		if end > len(products) {
			end = len(products)
		}
		n, err := s.store.InsertMany(ctx, products[start:end])
		report.Imported += n
		if err != nil {
			s.logger.Error("import batch failed",
				zap.Int("batch_start", start),
				zap.Int("imported", report.Imported),
				zap.Error(err))
			s.invalidate(report.Imported)
			return report, fmt.Errorf("insert rows %d-%d: %w", start+1, end, err)
		}
	}

	s.invalidate(report.Imported)
	s.logger.Info("import finished",
		zap.Int("rows", report.Rows),
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped))
	return report, nil
}

func (s *ImportService) invalidate(imported int) {
	if imported > 0 && s.catalog != nil {
		s.catalog.Invalidate()
	}
}

// ProductFromRow maps the product sheet columns onto a Product
func ProductFromRow(row map[string]string) domain.Product {
	p := domain.Product{
		HandleID:        parseText(row["handleId"]),
		FieldType:       parseText(row["fieldType"]),
		Name:            parseText(row["name"]),
		Description:     parseText(row["description"]),
		ProductImageURL: parseText(row["productImageUrl"]),
		Collection:      parseText(row["collection"]),
		SKU:             parseText(row["sku"]),
		Ribbon:          parseText(row["ribbon"]),
		Price:           parseNumeric(row["price"]),
		Surcharge:       parseNumeric(row["surcharge"]),
		Visible:         parseBoolean(row["visible"]),
		DiscountMode:    parseText(row["discountMode"]),
		DiscountValue:   parseNumeric(row["discountValue"]),
		Inventory:       parseInventory(row["inventory"]),
		Weight:          parseNumeric(row["weight"]),
		Cost:            parseNumeric(row["cost"]),
		Type:            strings.ToLower(parseText(row["type"])),
		Brand:           parseText(row["brand"]),
	}

	for i := 1; i <= domain.MaxProductOptions; i++ {
		n := strconv.Itoa(i)
		opt := domain.ProductOption{
			Name:        parseText(row["productOptionName"+n]),
			Type:        parseText(row["productOptionType"+n]),
			Description: parseText(row["productOptionDescription"+n]),
		}
		if opt != (domain.ProductOption{}) {
			p.Options = append(p.Options, opt)
		}

		info := domain.AdditionalInfo{
			Title:       parseText(row["additionalInfoTitle"+n]),
			Description: parseText(row["additionalInfoDescription"+n]),
		}
		if info != (domain.AdditionalInfo{}) {
			p.AdditionalInfo = append(p.AdditionalInfo, info)
		}
	}

	for i := 1; i <= 2; i++ {
		n := strconv.Itoa(i)
		ct := domain.CustomText{
			Field:     parseText(row["customTextField"+n]),
			CharLimit: parseInteger(row["customTextCharLimit"+n]),
			Mandatory: parseBoolean(row["customTextMandatory"+n]),
		}
		if ct.Field != "" || ct.CharLimit != nil || ct.Mandatory != nil {
			p.CustomText = append(p.CustomText, ct)
		}
	}

	return p
}

func parseText(v string) string {
	return strings.TrimSpace(v)
}

// parseNumeric reads the longest leading decimal number; nil when there is none
func parseNumeric(v string) *float64 {
	m := leadingFloatRegex.FindString(strings.TrimSpace(v))
	if m == "" {
		return nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseInteger reads the leading integer; nil when there is none.
// Values past the int range are clamped to it.
func parseInteger(v string) *int {
	m := leadingIntRegex.FindString(strings.TrimSpace(v))
	if m == "" {
		return nil
	}
	n, err := strconv.ParseInt(m, 10, 0)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil
	}
	i := int(n)
	return &i
}

// parseBoolean is true for true/1/yes in any case, false for other text, nil when empty
func parseBoolean(v string) *bool {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return nil
	}
	b := v == "true" || v == "1" || v == "yes"
	return &b
}

// parseInventory maps "instock"/"in stock" to domain.InventoryInStock,
// otherwise the leading integer or 0; nil when empty
func parseInventory(v string) *int {
	text := strings.ToLower(strings.TrimSpace(v))
	if text == "" {
		return nil
	}
	if text == "instock" || text == "in stock" {
		n := domain.InventoryInStock
		return &n
	}
	if n := parseInteger(text); n != nil {
		return n
	}
	zero := 0
	return &zero
}
