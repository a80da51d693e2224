package cmd

import (
	"context"
	"fmt"

	"github.com/persondb/go-services/internal/person"
	"github.com/persondb/go-services/internal/person/service"
	"github.com/spf13/cobra"
)

// step is one entry of the walkthrough transcript.
type step struct {
	Step   string `json:"step"`
	Result any    `json:"result"`
}

var walkthroughCmd = &cobra.Command{
	Use:   "walkthrough",
	Short: "Run every repository operation once, in order, and print a transcript",
	Long: `Run the full sequence against the configured store:

  1. create John Doe (25, pizza + pasta)
  2. create several people at once
  3. find people named Mary
  4. find the first person who likes burritos
  5. find John Doe by id
  6. append "hamburger" to John Doe's favorite foods and save
  7. set the first Mary's age to 20
  8. delete John Doe by id
  9. delete every Mary
 10. list burrito lovers sorted by name, at most 2, without age`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc service.Service) (any, error) {
			return runWalkthrough(ctx, svc)
		})
	},
}

var walkthroughPeople = []person.Input{
	{Name: "Mary", Age: person.IntPtr(31), FavoriteFoods: []string{"burritos", "tacos"}},
	{Name: "Mary", Age: person.IntPtr(45), FavoriteFoods: []string{"salad"}},
	{Name: "Zoe", Age: person.IntPtr(28), FavoriteFoods: []string{"burritos"}},
	{Name: "Bob", Age: person.IntPtr(52), FavoriteFoods: []string{"burritos", "pizza"}},
	{Name: "Carl", FavoriteFoods: []string{"burritos"}},
}

func runWalkthrough(ctx context.Context, svc service.Service) ([]step, error) {
	var out []step
	record := func(name string, v any) { out = append(out, step{Step: name, Result: v}) }

	john, err := svc.CreateOne(ctx, person.Input{
		Name:          "John Doe",
		Age:           person.IntPtr(25),
		FavoriteFoods: []string{"pizza", "pasta"},
	})
	if err != nil {
		return out, fmt.Errorf("create John Doe: %w", err)
	}
	record("createAndSavePerson", john)
	id := john.ID.Hex()

	many, err := svc.CreateMany(ctx, walkthroughPeople)
	if err != nil {
		return out, fmt.Errorf("create people: %w", err)
	}
	record("createManyPeople", many)

	marys, err := svc.FindByName(ctx, "Mary")
	if err != nil {
		return out, fmt.Errorf("find Mary: %w", err)
	}
	record("findPeopleByName", marys)

	first, err := svc.FindOneByFavoriteFood(ctx, "burritos")
	if err != nil {
		return out, fmt.Errorf("find by food: %w", err)
	}
	record("findOneByFood", first)

	byID, err := svc.FindByID(ctx, id)
	if err != nil {
		return out, fmt.Errorf("find by id: %w", err)
	}
	record("findPersonById", byID)

	edited, err := svc.AddFavoriteFoodAndSave(ctx, id, "hamburger")
	if err != nil {
		return out, fmt.Errorf("add hamburger: %w", err)
	}
	record("findEditThenSave", edited)

	updated, err := svc.SetAgeByName(ctx, "Mary", 20)
	if err != nil {
		return out, fmt.Errorf("set age: %w", err)
	}
	record("findAndUpdate", updated)

	removed, err := svc.DeleteByID(ctx, id)
	if err != nil {
		return out, fmt.Errorf("remove by id: %w", err)
	}
	record("removeById", removed)

	summary, err := svc.DeleteByName(ctx, "Mary")
	if err != nil {
		return out, fmt.Errorf("remove Mary: %w", err)
	}
	record("removeManyPeople", summary)

	lovers, err := svc.Query(ctx, person.Query{FavoriteFood: "burritos", Limit: 2, SortByName: true, ExcludeAge: true})
	if err != nil {
		return out, fmt.Errorf("query burritos: %w", err)
	}
	record("queryChain", lovers)

	return out, nil
}
