package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aggarwalComputronix/website/internal/domain"
)

const productColumns = `id, handle_id, field_type, name, description, product_image_url, collection, sku, ribbon,
	price, surcharge, visible, discount_mode, discount_value, inventory, weight, cost, type, brand,
	options, additional_info, custom_text, created_at`

// ProductRepo is the SQLite catalog store
type ProductRepo struct {
	DB  *sql.DB
	now func() time.Time
}

// NewProductRepo wraps an open database
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{DB: db, now: time.Now}
}

// List returns products whose collection is in filter.Collections (when set)
// and whose type equals filter.Type (when set), ordered by id.
func (r *ProductRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	sqlStr, args := buildListSQL(filter)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %v", domain.ErrStoreFailure, err)
	}
	defer rows.Close()

	out := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list products: %v", domain.ErrStoreFailure, err)
	}
	return out, nil
}

func buildListSQL(filter domain.ProductFilter) (string, []any) {
	var (
		where []string
		args  []any
	)

	if len(filter.Collections) > 0 {
		placeholders := make([]string, len(filter.Collections))
		for i, c := range filter.Collections {
			placeholders[i] = "?"
			args = append(args, c)
		}
		where = append(where, "collection IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, filter.Type)
	}

	sqlStr := "SELECT " + productColumns + " FROM products"
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}
	return sqlStr + " ORDER BY id", args
}

// Get returns one product or domain.ErrProductNotFound
func (r *ProductRepo) Get(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	return p, err
}

// InsertMany stores all products in one transaction
func (r *ProductRepo) InsertMany(ctx context.Context, products []domain.Product) (n int, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin insert: %v", domain.ErrStoreFailure, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (handle_id, field_type, name, description, product_image_url, collection, sku, ribbon,
			price, surcharge, visible, discount_mode, discount_value, inventory, weight, cost, type, brand,
			options, additional_info, custom_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("%w: prepare insert: %v", domain.ErrStoreFailure, err)
	}
	defer stmt.Close()

	now := r.now()
	for i := range products {
		p := products[i]
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		args, err := productArgs(p)
		if err != nil {
			return 0, err
		}
		if _, err = stmt.ExecContext(ctx, append(args, p.CreatedAt.UnixMilli())...); err != nil {
			return 0, fmt.Errorf("%w: insert %q: %v", domain.ErrStoreFailure, p.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit insert: %v", domain.ErrStoreFailure, err)
	}
	return len(products), nil
}

// Update overwrites every column but id and created_at
func (r *ProductRepo) Update(ctx context.Context, p domain.Product) error {
	args, err := productArgs(p)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE products SET handle_id = ?, field_type = ?, name = ?, description = ?, product_image_url = ?,
			collection = ?, sku = ?, ribbon = ?, price = ?, surcharge = ?, visible = ?, discount_mode = ?,
			discount_value = ?, inventory = ?, weight = ?, cost = ?, type = ?, brand = ?,
			options = ?, additional_info = ?, custom_text = ?
		WHERE id = ?
	`, append(args, p.ID)...)
	if err != nil {
		return fmt.Errorf("%w: update product %d: %v", domain.ErrStoreFailure, p.ID, err)
	}
	return requireAffected(res, "update product")
}

// Delete removes one product
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete product %d: %v", domain.ErrStoreFailure, id, err)
	}
	return requireAffected(res, "delete product")
}

// Collections returns the distinct non-empty collection values, sorted
func (r *ProductRepo) Collections(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT collection FROM products
		WHERE collection IS NOT NULL AND collection != ''
		ORDER BY collection
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list collections: %v", domain.ErrStoreFailure, err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("%w: scan collection: %v", domain.ErrStoreFailure, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func requireAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s rows: %v", domain.ErrStoreFailure, op, err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// productArgs returns the column values shared by insert and update, in column order
func productArgs(p domain.Product) ([]any, error) {
	options, err := json.Marshal(nonNil(p.Options))
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}
	info, err := json.Marshal(nonNil(p.AdditionalInfo))
	if err != nil {
		return nil, fmt.Errorf("encode additional info: %w", err)
	}
	custom, err := json.Marshal(nonNil(p.CustomText))
	if err != nil {
		return nil, fmt.Errorf("encode custom text: %w", err)
	}

	return []any{
		nullString(p.HandleID), nullString(p.FieldType), p.Name, nullString(p.Description),
		nullString(p.ProductImageURL), nullString(p.Collection), nullString(p.SKU), nullString(p.Ribbon),
		nullFloat(p.Price), nullFloat(p.Surcharge), nullBool(p.Visible), nullString(p.DiscountMode),
		nullFloat(p.DiscountValue), nullInt(p.Inventory), nullFloat(p.Weight), nullFloat(p.Cost),
		nullString(p.Type), nullString(p.Brand),
		string(options), string(info), string(custom),
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*domain.Product, error) {
	var (
		p                                                   domain.Product
		handleID, fieldType, description, imageURL, coll    sql.NullString
		sku, ribbon, discountMode, productType, brand       sql.NullString
		price, surcharge, discountValue, weight, cost       sql.NullFloat64
		visible                                             sql.NullBool
		inventory                                           sql.NullInt64
		optionsJSON, infoJSON, customJSON                   string
		createdAt                                           int64
	)

	if err := row.Scan(
		&p.ID, &handleID, &fieldType, &p.Name, &description, &imageURL, &coll, &sku, &ribbon,
		&price, &surcharge, &visible, &discountMode, &discountValue, &inventory, &weight, &cost, &productType, &brand,
		&optionsJSON, &infoJSON, &customJSON, &createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: scan product: %v", domain.ErrStoreFailure, err)
	}

	p.HandleID = handleID.String
	p.FieldType = fieldType.String
	p.Description = description.String
	p.ProductImageURL = imageURL.String
	p.Collection = coll.String
	p.SKU = sku.String
	p.Ribbon = ribbon.String
	p.DiscountMode = discountMode.String
	p.Type = productType.String
	p.Brand = brand.String
	p.Price = floatPtr(price)
	p.Surcharge = floatPtr(surcharge)
	p.DiscountValue = floatPtr(discountValue)
	p.Weight = floatPtr(weight)
	p.Cost = floatPtr(cost)
	p.Visible = boolPtr(visible)
	p.Inventory = intPtr(inventory)
	p.CreatedAt = time.UnixMilli(createdAt).UTC()

	if err := json.Unmarshal([]byte(optionsJSON), &p.Options); err != nil {
		return nil, fmt.Errorf("%w: decode options of product %d: %v", domain.ErrStoreFailure, p.ID, err)
	}
	if err := json.Unmarshal([]byte(infoJSON), &p.AdditionalInfo); err != nil {
		return nil, fmt.Errorf("%w: decode additional info of product %d: %v", domain.ErrStoreFailure, p.ID, err)
	}
	if err := json.Unmarshal([]byte(customJSON), &p.CustomText); err != nil {
		return nil, fmt.Errorf("%w: decode custom text of product %d: %v", domain.ErrStoreFailure, p.ID, err)
	}
	if len(p.Options) == 0 {
		p.Options = nil
	}
	if len(p.AdditionalInfo) == 0 {
		p.AdditionalInfo = nil
	}
	if len(p.CustomText) == 0 {
		p.CustomText = nil
	}

	return &p, nil
}
