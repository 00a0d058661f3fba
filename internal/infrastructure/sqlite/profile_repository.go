package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lumos-rgb/lumos/internal/log"
	"github.com/lumos-rgb/lumos/internal/profile"
)

const profileSelect = `SELECT p.id, p.guid, p.regex, p.areas, p.priority, p.created_at, p.updated_at,
       c.id, c.name, c.priority, c.enabled
FROM profiles p
LEFT JOIN profile_categories pc ON pc.profile_id = p.id
LEFT JOIN categories c ON c.id = pc.category_id`

// profileRepository implements profile.Repository using SQLite.
type profileRepository struct {
	db *sql.DB
}

func newProfileRepository(db *sql.DB) *profileRepository {
	return &profileRepository{db: db}
}

var _ profile.Repository = (*profileRepository)(nil)

func scanProfile(scanner interface{ Scan(...any) error }) (*ProfileModel, error) {
	var m ProfileModel
	err := scanner.Scan(&m.ID, &m.GUID, &m.Regex, &m.Areas, &m.Priority, &m.CreatedAt, &m.UpdatedAt,
		&m.CategoryID, &m.CategoryName, &m.CategoryPriority, &m.CategoryEnabled)
	return &m, err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Save inserts new profiles (ID == 0) and updates existing ones. The profile
// row and its category membership are written in one transaction.
func (r *profileRepository) Save(ctx context.Context, p *profile.Profile) error {
	model := toProfileModel(p)
	if c := p.Category(); c != nil && c.ID == 0 {
		return fmt.Errorf("category %q must be saved before profile", c.Name)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if p.ID() == 0 {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (guid, regex, areas, priority, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			model.GUID, model.Regex, model.Areas, model.Priority, model.CreatedAt, model.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert profile: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		model.ID = id
	} else {
		result, err := tx.ExecContext(ctx,
			`UPDATE profiles SET guid = ?, regex = ?, areas = ?, priority = ?, updated_at = ? WHERE id = ?`,
			model.GUID, model.Regex, model.Areas, model.Priority, model.UpdatedAt, model.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		if err := requireRow(result, model.ID); err != nil {
			return err
		}
	}

	if err := saveMembership(ctx, tx, model.ID, model.CategoryID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit profile: %w", err)
	}

	if p.ID() == 0 {
		p.SetID(model.ID)
		log.Debug(log.CatDB, "inserted profile", "id", model.ID, "guid", model.GUID)
	} else {
		log.Debug(log.CatDB, "updated profile", "id", model.ID)
	}
	return nil
}

func saveMembership(ctx context.Context, tx execer, profileID int64, categoryID *int64) error {
	if categoryID == nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM profile_categories WHERE profile_id = ?`, profileID); err != nil {
			return fmt.Errorf("failed to clear profile category: %w", err)
		}
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO profile_categories (profile_id, category_id) VALUES (?, ?)
		 ON CONFLICT(profile_id) DO UPDATE SET category_id = excluded.category_id`,
		profileID, *categoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to set profile category: %w", err)
	}
	return nil
}

// FindByID retrieves a profile by its database ID.
func (r *profileRepository) FindByID(ctx context.Context, id int64) (*profile.Profile, error) {
	row := r.db.QueryRowContext(ctx, profileSelect+` WHERE p.id = ?`, id)
	return r.one(row, &profile.NotFoundError{ID: id}, "failed to find profile by id")
}

// FindByGUID retrieves a profile by its GUID.
func (r *profileRepository) FindByGUID(ctx context.Context, guid string) (*profile.Profile, error) {
	row := r.db.QueryRowContext(ctx, profileSelect+` WHERE p.guid = ?`, guid)
	return r.one(row, &profile.NotFoundError{GUID: guid}, "failed to find profile by guid")
}

func (r *profileRepository) one(row *sql.Row, notFound error, msg string) (*profile.Profile, error) {
	model, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	p, err := model.toDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %d: %w", model.ID, err)
	}
	return p, nil
}

// List returns every profile ordered by ID.
func (r *profileRepository) List(ctx context.Context) ([]*profile.Profile, error) {
	rows, err := r.db.QueryContext(ctx, profileSelect+` ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []*profile.Profile{}
	for rows.Next() {
		model, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		p, err := model.toDomain()
		if err != nil {
			return nil, fmt.Errorf("failed to load profile %d: %w", model.ID, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}

// Delete removes a profile.
func (r *profileRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if err := requireRow(result, id); err != nil {
		return err
	}
	log.Debug(log.CatDB, "deleted profile", "id", id)
	return nil
}

func requireRow(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return &profile.NotFoundError{ID: id}
	}
	return nil
}
