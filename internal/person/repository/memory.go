package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/persondb/go-services/internal/person"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errDuplicateID = errors.New("duplicate key on _id")

// MemoryRepo is an in-process Repository with the same observable semantics
// as MongoRepo. Natural order is insertion order. Stored documents are never
// handed out directly; every read returns copies.
type MemoryRepo struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	store map[primitive.ObjectID]*person.Person
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[primitive.ObjectID]*person.Person)}
}

func (m *MemoryRepo) Insert(_ context.Context, p *person.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(p)
}

// InsertMany is all-or-nothing: a duplicate id anywhere in the batch leaves
// the store untouched.
func (m *MemoryRepo) InsertMany(_ context.Context, people []*person.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[primitive.ObjectID]struct{}, len(people))
	for _, p := range people {
		if p.ID.IsZero() {
			continue
		}
		if _, ok := m.store[p.ID]; ok {
			return person.StoreError("insertMany", person.Filter("_id", p.ID.Hex()), errDuplicateID)
		}
		if _, ok := seen[p.ID]; ok {
			return person.StoreError("insertMany", person.Filter("_id", p.ID.Hex()), errDuplicateID)
		}
		seen[p.ID] = struct{}{}
	}
	for _, p := range people {
		if err := m.insertLocked(p); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryRepo) insertLocked(p *person.Person) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, ok := m.store[p.ID]; ok {
		return person.StoreError("insertOne", person.Filter("_id", p.ID.Hex()), errDuplicateID)
	}
	m.store[p.ID] = p.Clone()
	m.order = append(m.order, p.ID)
	return nil
}

func (m *MemoryRepo) FindByName(_ context.Context, name string) ([]*person.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(p *person.Person) bool { return p.Name == name }), nil
}

func (m *MemoryRepo) FindOneByFavoriteFood(_ context.Context, food string) (*person.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p := m.first(likes(food)); p != nil {
		return p.Clone(), nil
	}
	return nil, nil
}

func (m *MemoryRepo) FindByID(_ context.Context, id primitive.ObjectID) (*person.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.store[id]; ok {
		return p.Clone(), nil
	}
	return nil, nil
}

func (m *MemoryRepo) Save(_ context.Context, p *person.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[p.ID]; !ok {
		return person.NotFoundError("save", person.Filter("_id", p.ID.Hex()))
	}
	m.store[p.ID] = p.Clone()
	return nil
}

func (m *MemoryRepo) SetAgeByName(_ context.Context, name string, age int) (*person.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.first(func(p *person.Person) bool { return p.Name == name })
	if p == nil {
		return nil, nil
	}
	p.Age = person.IntPtr(age)
	return p.Clone(), nil
}

func (m *MemoryRepo) DeleteByID(_ context.Context, id primitive.ObjectID) (*person.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, nil
	}
	m.removeLocked(func(q *person.Person) bool { return q.ID == id })
	return p, nil
}

func (m *MemoryRepo) DeleteByName(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(func(p *person.Person) bool { return p.Name == name }), nil
}

func (m *MemoryRepo) Query(_ context.Context, q person.Query) ([]*person.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.collect(likes(q.FavoriteFood))
	if q.SortByName {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	if q.ExcludeAge {
		for _, p := range out {
			p.Age = nil
		}
	}
	return out, nil
}

func (m *MemoryRepo) Ping(context.Context) error { return nil }

func (m *MemoryRepo) first(match func(*person.Person) bool) *person.Person {
	for _, id := range m.order {
		if p := m.store[id]; match(p) {
			return p
		}
	}
	return nil
}

func (m *MemoryRepo) collect(match func(*person.Person) bool) []*person.Person {
	out := []*person.Person{}
	for _, id := range m.order {
		if p := m.store[id]; match(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (m *MemoryRepo) removeLocked(match func(*person.Person) bool) int64 {
	var n int64
	kept := m.order[:0]
	for _, id := range m.order {
		if match(m.store[id]) {
			delete(m.store, id)
			n++
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept
	return n
}

func likes(food string) func(*person.Person) bool {
	return func(p *person.Person) bool {
		for _, f := range p.FavoriteFoods {
			if f == food {
				return true
			}
		}
		return false
	}
}
