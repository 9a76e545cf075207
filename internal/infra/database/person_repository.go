package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

type PersonRepository struct {
	DB *sql.DB
}

func NewPersonRepository(db *sql.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

func (r *PersonRepository) FindByID(ctx context.Context, id int64) (*entity.Person, error) {
	query := `
		SELECT id, first_name, last_name, created_at
		FROM persons
		WHERE id = $1
	`

	var p entity.Person
	var firstName, lastName sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &firstName, &lastName, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrPersonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find person %d: %w", id, err)
	}

	p.FirstName = firstName.String
	p.LastName = lastName.String
	return &p, nil
}

func (r *PersonRepository) Create(ctx context.Context, p *entity.Person) error {
	query := `
		INSERT INTO persons (id, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.DB.ExecContext(ctx, query,
		p.ID,
		nullString(p.FirstName),
		nullString(p.LastName),
		p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrPersonAlreadyExists
		}
		return fmt.Errorf("create person %d: %w", p.ID, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
