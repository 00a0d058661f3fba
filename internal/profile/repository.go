package profile

import "context"

// Repository persists profiles.
type Repository interface {
	// Save inserts a profile with ID 0 and assigns its ID, or updates the
	// stored profile with the same ID. A category must be saved first.
	Save(ctx context.Context, p *Profile) error

	// FindByID returns NotFoundError when no profile has the ID.
	FindByID(ctx context.Context, id int64) (*Profile, error)

	// FindByGUID returns NotFoundError when no profile has the GUID.
	FindByGUID(ctx context.Context, guid string) (*Profile, error)

	// List returns all profiles ordered by ID, with their categories.
	List(ctx context.Context) ([]*Profile, error)

	// Delete returns NotFoundError when no profile has the ID.
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository persists profile categories.
type CategoryRepository interface {
	// Save inserts a category with ID 0 and assigns its ID, or updates the
	// stored category with the same ID.
	Save(ctx context.Context, c *Category) error

	// FindByName returns CategoryNotFoundError when no category has the name.
	FindByName(ctx context.Context, name string) (*Category, error)

	// List returns all categories ordered by name.
	List(ctx context.Context) ([]*Category, error)

	// Delete removes a category. Its profiles become uncategorised.
	Delete(ctx context.Context, id int64) error
}
