package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mellobo05/diet-ai-recommender/internal/entity"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

const productColumns = `id, external_id, title, description, category, keywords, price, discount_pct, final_price, calories, protein_grams, fat_grams, carbs_grams, is_diet, created_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*entity.Product, error) {
	product := &entity.Product{}
	var keywords string
	err := row.Scan(&product.ID, &product.ExternalID, &product.Title, &product.Description,
		&product.Category, &keywords, &product.Price, &product.DiscountPct, &product.FinalPrice,
		&product.Calories, &product.ProteinGrams, &product.FatGrams, &product.CarbsGrams,
		&product.IsDiet, &product.CreatedAt)
	if err != nil {
		return nil, err
	}
	if keywords != "" {
		product.Keywords = strings.Split(keywords, ",")
	}
	return product, nil
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	return scanProduct(r.db.QueryRowContext(ctx, query, id))
}

func (r *ProductRepository) GetProducts(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// GetProductsByIDs resolves a set of product ids in one query. Unknown ids are
// simply absent from the result; the caller detects the gap.
func (r *ProductRepository) GetProductsByIDs(ctx context.Context, ids []int) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`SELECT `+productColumns+` FROM products WHERE id IN (%s)`, placeholders)

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// UpsertProduct inserts a product keyed by its external source id, or updates
// the descriptive, pricing and nutrition fields when it already exists. The
// cached is_diet flag is deliberately left untouched on update; only the
// classification sync writes it.
func (r *ProductRepository) UpsertProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `
		INSERT INTO products (external_id, title, description, category, keywords, price, discount_pct, final_price, calories, protein_grams, fat_grams, carbs_grams)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			title = VALUES(title), description = VALUES(description), category = VALUES(category),
			keywords = VALUES(keywords), price = VALUES(price), discount_pct = VALUES(discount_pct),
			final_price = VALUES(final_price), calories = VALUES(calories),
			protein_grams = VALUES(protein_grams), fat_grams = VALUES(fat_grams), carbs_grams = VALUES(carbs_grams),
			id = LAST_INSERT_ID(id)`

	res, err := r.db.ExecContext(ctx, query, product.ExternalID, product.Title, product.Description,
		product.Category, strings.Join(product.Keywords, ","), product.Price, product.DiscountPct,
		product.FinalPrice, product.Calories, product.ProteinGrams, product.FatGrams, product.CarbsGrams)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	product.ID = int(id)
	return product, nil
}

// UpdateDietFlag persists the cached classification verdict for one product.
func (r *ProductRepository) UpdateDietFlag(ctx context.Context, id int, isDiet bool) error {
	query := `UPDATE products SET is_diet = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, isDiet, id)
	return err
}
