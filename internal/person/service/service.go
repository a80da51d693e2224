package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/persondb/go-services/internal/person"
	"github.com/persondb/go-services/internal/person/repository"
	"github.com/persondb/go-services/pkg/logger"
	"github.com/persondb/go-services/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service is the typed operation set over the person collection. Lookups
// report absence as a nil *person.Person with a nil error; failures carry one
// of person.ErrValidation, person.ErrNotFound or person.ErrStore.
//
// AddFavoriteFoodAndSave is a read-modify-write without concurrency control:
// a concurrent edit between its load and its save is overwritten. Use
// SetAgeByName-style atomic updates when that matters.
type Service interface {
	CreateOne(ctx context.Context, in person.Input) (*person.Person, error)
	CreateMany(ctx context.Context, in []person.Input) ([]*person.Person, error)
	FindByName(ctx context.Context, name string) ([]*person.Person, error)
	FindOneByFavoriteFood(ctx context.Context, food string) (*person.Person, error)
	FindByID(ctx context.Context, id string) (*person.Person, error)
	Get(ctx context.Context, id string) (*person.Person, error)
	AddFavoriteFoodAndSave(ctx context.Context, id, food string) (*person.Person, error)
	SetAgeByName(ctx context.Context, name string, age int) (*person.Person, error)
	DeleteByID(ctx context.Context, id string) (*person.Person, error)
	DeleteByName(ctx context.Context, name string) (person.DeleteSummary, error)
	QueryFavoriteFood(ctx context.Context, food string, limit int64, sortByName, excludeAge bool) ([]*person.Person, error)
	Query(ctx context.Context, q person.Query) ([]*person.Person, error)
	Ping(ctx context.Context) error
}

// New returns a Service backed by repo.
func New(repo repository.Repository) Service {
	return &personService{repo: repo}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return New(repository.NewMemoryRepo())
}

// NewMongoService returns a Service backed by a MongoDB collection.
// Caller is responsible for creating the collection (and client) and passing it in.
func NewMongoService(ctx context.Context, col *mongo.Collection) Service {
	return New(repository.NewMongoRepo(ctx, col))
}

type personService struct {
	repo repository.Repository
}

func (s *personService) CreateOne(ctx context.Context, in person.Input) (p *person.Person, err error) {
	defer s.observe("createOne", time.Now(), &err, func() bool { return false })
	if verr := person.ValidateInput(in); verr != nil {
		return nil, person.ValidationError("createOne", verr)
	}
	p = person.New(in)
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *personService) CreateMany(ctx context.Context, in []person.Input) (out []*person.Person, err error) {
	defer s.observe("createMany", time.Now(), &err, func() bool { return false })
	for i, pi := range in {
		if verr := person.ValidateInput(pi); verr != nil {
			return nil, person.ValidationError("createMany", indexed(i, verr))
		}
	}
	out = make([]*person.Person, 0, len(in))
	for _, pi := range in {
		out = append(out, person.New(pi))
	}
	if err := s.repo.InsertMany(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *personService) FindByName(ctx context.Context, name string) (out []*person.Person, err error) {
	defer s.observe("findByName", time.Now(), &err, func() bool { return len(out) == 0 })
	return s.repo.FindByName(ctx, name)
}

func (s *personService) FindOneByFavoriteFood(ctx context.Context, food string) (p *person.Person, err error) {
	defer s.observe("findOneByFavoriteFood", time.Now(), &err, func() bool { return p == nil })
	return s.repo.FindOneByFavoriteFood(ctx, food)
}

func (s *personService) FindByID(ctx context.Context, id string) (p *person.Person, err error) {
	defer s.observe("findById", time.Now(), &err, func() bool { return p == nil })
	oid, err := parseID("findById", id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, oid)
}

// Get is FindByID for callers that require the person to exist.
func (s *personService) Get(ctx context.Context, id string) (*person.Person, error) {
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, person.NotFoundError("get", person.Filter("_id", id))
	}
	return p, nil
}

func (s *personService) AddFavoriteFoodAndSave(ctx context.Context, id, food string) (p *person.Person, err error) {
	defer s.observe("addFavoriteFoodAndSave", time.Now(), &err, func() bool { return false })
	oid, err := parseID("addFavoriteFoodAndSave", id)
	if err != nil {
		return nil, err
	}
	p, err = s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, person.NotFoundError("addFavoriteFoodAndSave", person.Filter("_id", id))
	}
	p.FavoriteFoods = append(p.FavoriteFoods, food)
	if verr := person.ValidatePerson(p); verr != nil {
		return nil, person.ValidationError("addFavoriteFoodAndSave", verr)
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *personService) SetAgeByName(ctx context.Context, name string, age int) (p *person.Person, err error) {
	defer s.observe("setAgeByName", time.Now(), &err, func() bool { return p == nil })
	if verr := person.ValidateAge(age); verr != nil {
		return nil, person.ValidationError("setAgeByName", verr)
	}
	return s.repo.SetAgeByName(ctx, name, age)
}

func (s *personService) DeleteByID(ctx context.Context, id string) (p *person.Person, err error) {
	defer s.observe("deleteById", time.Now(), &err, func() bool { return p == nil })
	oid, err := parseID("deleteById", id)
	if err != nil {
		return nil, err
	}
	return s.repo.DeleteByID(ctx, oid)
}

func (s *personService) DeleteByName(ctx context.Context, name string) (sum person.DeleteSummary, err error) {
	defer s.observe("deleteByName", time.Now(), &err, func() bool { return sum.Count == 0 })
	n, err := s.repo.DeleteByName(ctx, name)
	if err != nil {
		return person.DeleteSummary{}, err
	}
	return person.DeleteSummary{Count: n}, nil
}

func (s *personService) QueryFavoriteFood(ctx context.Context, food string, limit int64, sortByName, excludeAge bool) ([]*person.Person, error) {
	return s.Query(ctx, person.Query{FavoriteFood: food, Limit: limit, SortByName: sortByName, ExcludeAge: excludeAge})
}

func (s *personService) Query(ctx context.Context, q person.Query) (out []*person.Person, err error) {
	defer s.observe("query", time.Now(), &err, func() bool { return len(out) == 0 })
	if verr := person.ValidateLimit(q.Limit); verr != nil {
		return nil, person.ValidationError("query", verr)
	}
	return s.repo.Query(ctx, q)
}

func (s *personService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// observe records the outcome of op. It runs deferred, after the named
// results are set.
func (s *personService) observe(op string, start time.Time, errp *error, absent func() bool) {
	metrics.PersonOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	err := *errp
	switch {
	case err == nil && absent():
		metrics.PersonOperations.WithLabelValues(op, metrics.OutcomeAbsent).Inc()
		logger.Debugf("%s: no match", op)
	case err == nil:
		metrics.PersonOperations.WithLabelValues(op, metrics.OutcomeOK).Inc()
		logger.Debugf("%s: ok", op)
	case errors.Is(err, person.ErrValidation):
		metrics.PersonOperations.WithLabelValues(op, metrics.OutcomeInvalid).Inc()
		logger.Warnf("%v", err)
	case errors.Is(err, person.ErrNotFound):
		metrics.PersonOperations.WithLabelValues(op, metrics.OutcomeNotFound).Inc()
		logger.Warnf("%v", err)
	default:
		metrics.PersonOperations.WithLabelValues(op, metrics.OutcomeStoreError).Inc()
		logger.Errorf("%v", err)
	}
}

func parseID(op, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, person.ValidationError(op, person.FieldErrors{{Field: "id", Message: "must be a 24-character hex ObjectID"}})
	}
	return oid, nil
}

func indexed(i int, err error) error {
	var fe person.FieldErrors
	if !errors.As(err, &fe) {
		return err
	}
	out := make(person.FieldErrors, 0, len(fe))
	for _, f := range fe {
		out = append(out, person.FieldError{Field: "[" + strconv.Itoa(i) + "]." + f.Field, Message: f.Message})
	}
	return out
}
