package entity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPersonNotFound      = errors.New("person not found")
	ErrPersonAlreadyExists = errors.New("person already exists")
)

// Person is a platform user identified by their page-scoped sender id.
type Person struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the public profile fetched from the messaging platform.
type Profile struct {
	PersonID  int64  `json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func NewPerson(id int64, profile *Profile, now time.Time) *Person {
	p := &Person{ID: id, CreatedAt: now}
	if profile != nil {
		p.FirstName = profile.FirstName
		p.LastName = profile.LastName
	}
	return p
}

type PersonRepositoryInterface interface {
	FindByID(ctx context.Context, id int64) (*Person, error)
	Create(ctx context.Context, p *Person) error
}
