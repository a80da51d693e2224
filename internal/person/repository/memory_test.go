package repository

import (
	"context"
	"testing"

	"github.com/persondb/go-services/internal/person"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryRepoCRUD(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	p := person.New(person.Input{Name: "Ali", Age: person.IntPtr(30), FavoriteFoods: []string{"pasta", "pizza"}})
	require.NoError(t, r.Insert(ctx, p))
	require.False(t, p.ID.IsZero())

	got, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p, got)

	// returned documents are copies
	got.FavoriteFoods[0] = "mutated"
	again, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "pasta", again.FavoriteFoods[0])

	again.FavoriteFoods = append(again.FavoriteFoods, "hamburger")
	require.NoError(t, r.Save(ctx, again))
	saved, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"pasta", "pizza", "hamburger"}, saved.FavoriteFoods)

	removed, err := r.DeleteByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, removed.ID)
	gone, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	require.ErrorIs(t, r.Save(ctx, saved), person.ErrNotFound)
}

func TestMemoryRepoInsertManyIsAllOrNothing(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	existing := person.New(person.Input{Name: "Existing"})
	require.NoError(t, r.Insert(ctx, existing))

	clash := person.New(person.Input{Name: "Clash"})
	clash.ID = existing.ID
	err := r.InsertMany(ctx, []*person.Person{person.New(person.Input{Name: "Fresh"}), clash})
	require.ErrorIs(t, err, person.ErrStore)

	fresh, err := r.FindByName(ctx, "Fresh")
	require.NoError(t, err)
	require.Empty(t, fresh)

	dupID := primitive.NewObjectID()
	a := &person.Person{ID: dupID, Name: "A"}
	b := &person.Person{ID: dupID, Name: "B"}
	require.ErrorIs(t, r.InsertMany(ctx, []*person.Person{a, b}), person.ErrStore)
}

func TestMemoryRepoNaturalOrderSurvivesDeletes(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	people := []*person.Person{
		person.New(person.Input{Name: "one", FavoriteFoods: []string{"x"}}),
		person.New(person.Input{Name: "two", FavoriteFoods: []string{"x"}}),
		person.New(person.Input{Name: "three", FavoriteFoods: []string{"x"}}),
	}
	require.NoError(t, r.InsertMany(ctx, people))

	n, err := r.DeleteByName(ctx, "one")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	first, err := r.FindOneByFavoriteFood(ctx, "x")
	require.NoError(t, err)
	require.Equal(t, "two", first.Name)

	all, err := r.Query(ctx, person.Query{FavoriteFood: "x"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "three", all[1].Name)
}
