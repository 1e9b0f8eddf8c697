// Copyright (c) 2026 Odara. All rights reserved.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odara-app/odara/internal/platform/apperr"
)

// productColumns is the canonical SELECT column list for the product table.
const productColumns = `
	id, name, slug, description, category, pricecents, currency,
	imageurl, rating, ratingcount, stock, createdat, updatedat`

// PostgresProductRepository implements ProductRepository using pgx.
type PostgresProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new PostgreSQL implementation of ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

// sortColumn maps a filter's SortBy value to a whitelisted column name.
//
// Only whitelisted identifiers ever reach the SQL string, so the dynamic
// ORDER BY cannot be injected through.
func sortColumn(f ProductFilter) string {
	column := "createdat"
	switch f.SortBy {
	case "price":
		column = "pricecents"
	case "rating":
		column = "rating"
	case "createdat":
		column = "createdat"
	}

	direction := "DESC"
	if strings.EqualFold(f.SortDir, "asc") {
		direction = "ASC"
	}

	return column + " " + direction
}

/*
List returns a filtered, paginated page of products plus the total count.

Description: Builds the WHERE clause dynamically from the filter, counting
with a window function so list and total come from a single query.

Parameters:
  - ctx: context.Context
  - f: ProductFilter
  - limit: int
  - offset: int

Returns:
  - []*Product: Matching products
  - int: Total count before pagination
  - error: Query failures
*/
func (repository *PostgresProductRepository) List(ctx context.Context, f ProductFilter, limit, offset int) ([]*Product, int, error) {

	conditions := []string{"deletedat IS NULL"}
	args := []any{}

	// Positional args are appended in lockstep with conditions
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	if f.Category != nil {
		args = append(args, *f.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS totalcount
		FROM catalog.product
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		productColumns,
		strings.Join(conditions, " AND "),
		sortColumn(f),
		len(args)-1,
		len(args),
	)

	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_product_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var products []*Product
	total := 0

	for rows.Next() {
		product := &Product{}
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Slug,
			&product.Description,
			&product.Category,
			&product.PriceCents,
			&product.Currency,
			&product.ImageURL,
			&product.Rating,
			&product.RatingCount,
			&product.Stock,
			&product.CreatedAt,
			&product.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_product_repo_scan_failed: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_product_repo_rows_failed: %w", err)
	}

	return products, total, nil
}

/*
FindByID returns the product with the given ID.

Parameters:
  - ctx: context.Context
  - id: string (UUIDv7)

Returns:
  - *Product: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresProductRepository) FindByID(ctx context.Context, id string) (*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM catalog.product
		WHERE id = $1 AND deletedat IS NULL`, productColumns)

	return repository.findOne(ctx, query, id)
}

/*
FindBySlug returns the product with the given slug.

Parameters:
  - ctx: context.Context
  - slug: string

Returns:
  - *Product: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresProductRepository) FindBySlug(ctx context.Context, slug string) (*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM catalog.product
		WHERE slug = $1 AND deletedat IS NULL`, productColumns)

	return repository.findOne(ctx, query, slug)
}

// findOne executes a single-row product query and maps pgx.ErrNoRows.
func (repository *PostgresProductRepository) findOne(ctx context.Context, query string, arg any) (*Product, error) {
	product := &Product{}
	err := repository.pool.QueryRow(ctx, query, arg).Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.Category,
		&product.PriceCents,
		&product.Currency,
		&product.ImageURL,
		&product.Rating,
		&product.RatingCount,
		&product.Stock,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, fmt.Errorf("postgres_product_repo_find_failed: %w", err)
	}

	return product, nil
}

/*
Create persists a new product row.

Parameters:
  - ctx: context.Context
  - product: *Product

Returns:
  - error: apperr.Conflict on a duplicate slug, or execution errors
*/
func (repository *PostgresProductRepository) Create(ctx context.Context, product *Product) error {
	query := `
		INSERT INTO catalog.product
			(id, name, slug, description, category, pricecents, currency,
			 imageurl, rating, ratingcount, stock, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())`

	_, err := repository.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.Category,
		product.PriceCents,
		product.Currency,
		product.ImageURL,
		product.Rating,
		product.RatingCount,
		product.Stock,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return apperr.Conflict("A product with this slug already exists")
		}
		return fmt.Errorf("postgres_product_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByIDs returns the products matching the given IDs.

Description: Used to hydrate the wishlist. IDs with no matching row are
silently skipped so stale wishlist members do not break the listing.

Parameters:
  - ctx: context.Context
  - ids: []string

Returns:
  - []*Product: Matching products
  - error: Query failures
*/
func (repository *PostgresProductRepository) FindByIDs(ctx context.Context, ids []string) ([]*Product, error) {
	if len(ids) == 0 {
		return []*Product{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM catalog.product
		WHERE id = ANY($1) AND deletedat IS NULL`, productColumns)

	rows, err := repository.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres_product_repo_find_by_ids_failed: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		product := &Product{}
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Slug,
			&product.Description,
			&product.Category,
			&product.PriceCents,
			&product.Currency,
			&product.ImageURL,
			&product.Rating,
			&product.RatingCount,
			&product.Stock,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_product_repo_scan_failed: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_product_repo_rows_failed: %w", err)
	}

	return products, nil
}
