package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lumos-rgb/lumos/internal/log"
	"github.com/lumos-rgb/lumos/internal/profile"
)

const categoryColumns = `id, name, priority, enabled, created_at, updated_at`

// categoryRepository implements profile.CategoryRepository using SQLite.
type categoryRepository struct {
	db *sql.DB
}

var _ profile.CategoryRepository = (*categoryRepository)(nil)

// Categories returns the category repository.
func (db *DB) Categories() profile.CategoryRepository {
	return &categoryRepository{db: db.conn}
}

func scanCategory(scanner interface{ Scan(...any) error }) (*CategoryModel, error) {
	var m CategoryModel
	err := scanner.Scan(&m.ID, &m.Name, &m.Priority, &m.Enabled, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

// Save inserts new categories (ID == 0) and updates existing ones.
func (r *categoryRepository) Save(ctx context.Context, c *profile.Category) error {
	if c.Name == "" {
		return profile.ErrEmptyCategoryName
	}
	now := time.Now().UnixMilli()

	if c.ID == 0 {
		result, err := r.db.ExecContext(ctx,
			`INSERT INTO categories (name, priority, enabled, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			c.Name, c.Priority, c.Enabled, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert category: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		c.ID = id
		log.Debug(log.CatDB, "inserted category", "id", id, "name", c.Name)
		return nil
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, priority = ?, enabled = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Priority, c.Enabled, now, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if err := requireCategoryRow(result, c.ID); err != nil {
		return err
	}
	log.Debug(log.CatDB, "updated category", "id", c.ID)
	return nil
}

// FindByName retrieves a category by name.
func (r *categoryRepository) FindByName(ctx context.Context, name string) (*profile.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = ?`, name)
	model, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &profile.CategoryNotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}
	return model.toDomain(), nil
}

// List returns every category ordered by name.
func (r *categoryRepository) List(ctx context.Context) ([]*profile.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*profile.Category{}
	for rows.Next() {
		model, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, model.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// Delete removes a category; its profiles lose their membership.
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if err := requireCategoryRow(result, id); err != nil {
		return err
	}
	log.Debug(log.CatDB, "deleted category", "id", id)
	return nil
}

func requireCategoryRow(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return &profile.CategoryNotFoundError{ID: id}
	}
	return nil
}
