package repository

import (
	"context"

	"github.com/persondb/go-services/internal/person"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository is the storage contract behind the person service. Each method
// issues exactly one request to the store. Inputs are already validated.
//
// Lookups report absence as (nil, nil). Save is the one method that reports
// a missing document as person.ErrNotFound, since it targets a known id.
// Every other failure is a person.ErrStore.
type Repository interface {
	Insert(ctx context.Context, p *person.Person) error
	InsertMany(ctx context.Context, people []*person.Person) error
	FindByName(ctx context.Context, name string) ([]*person.Person, error)
	FindOneByFavoriteFood(ctx context.Context, food string) (*person.Person, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*person.Person, error)
	Save(ctx context.Context, p *person.Person) error
	SetAgeByName(ctx context.Context, name string, age int) (*person.Person, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*person.Person, error)
	DeleteByName(ctx context.Context, name string) (int64, error)
	Query(ctx context.Context, q person.Query) ([]*person.Person, error)
	Ping(ctx context.Context) error
}
