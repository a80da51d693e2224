package person

import "go.mongodb.org/mongo-driver/bson/primitive"

// Person is the persisted document stored in the people collection.
// ID is assigned once at creation and never rewritten.
type Person struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name" validate:"required"`
	Age           *int               `json:"age,omitempty" bson:"age,omitempty" validate:"omitempty,gte=0"`
	FavoriteFoods []string           `json:"favoriteFoods" bson:"favoriteFoods"`
}

// Input is the shape accepted by the create operations.
type Input struct {
	Name          string   `json:"name" validate:"required"`
	Age           *int     `json:"age,omitempty" validate:"omitempty,gte=0"`
	FavoriteFoods []string `json:"favoriteFoods,omitempty"`
}

// New builds an unsaved Person from in. FavoriteFoods is never nil so the
// stored document always carries an array.
func New(in Input) *Person {
	p := &Person{Name: in.Name, FavoriteFoods: make([]string, 0, len(in.FavoriteFoods))}
	if in.Age != nil {
		age := *in.Age
		p.Age = &age
	}
	p.FavoriteFoods = append(p.FavoriteFoods, in.FavoriteFoods...)
	return p
}

// Clone returns a deep copy of p.
func (p *Person) Clone() *Person {
	if p == nil {
		return nil
	}
	c := *p
	if p.Age != nil {
		age := *p.Age
		c.Age = &age
	}
	if p.FavoriteFoods != nil {
		c.FavoriteFoods = append(make([]string, 0, len(p.FavoriteFoods)), p.FavoriteFoods...)
	}
	return &c
}

// Query is a favorite-food lookup with ordering, limit and projection applied
// by the store in a single request. Limit <= 0 means no limit.
type Query struct {
	FavoriteFood string
	Limit        int64
	SortByName   bool
	ExcludeAge   bool
}

// DeleteSummary reports how many documents a delete-by-filter removed.
type DeleteSummary struct {
	Count int64 `json:"count"`
}

// IntPtr is a small helper for building inputs with an age.
func IntPtr(v int) *int { return &v }
