package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/persondb/go-services/internal/person"
	"github.com/persondb/go-services/internal/person/service"
	"github.com/spf13/cobra"
)

var (
	createName  string
	createAge   int
	createFoods []string

	manyFile string

	queryLimit      int64
	querySortByName bool
	queryExcludeAge bool
)

var createCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create and save a single person",
	Example: `  persondemo create --name "John Doe" --age 25 --food pizza --food pasta`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := person.Input{Name: createName, FavoriteFoods: createFoods}
		if cmd.Flags().Changed("age") {
			in.Age = person.IntPtr(createAge)
		}
		return withService(cmd, func(ctx context.Context, svc service.Service) (any, error) {
			return svc.CreateOne(ctx, in)
		})
	},
}

var createManyCmd = &cobra.Command{
	Use:   "create-many",
	Short: "Create several people from a JSON array",
	Long: `Create several people from a JSON array read from --file or stdin.
Every element is validated before anything is written.`,
	Example: `  echo '[{"name":"Mary","age":31},{"name":"Bob"}]' | persondemo create-many`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if manyFile != "" && manyFile != "-" {
			f, err := os.Open(manyFile)
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		var in []person.Input
		if err := json.NewDecoder(r).Decode(&in); err != nil {
			return fmt.Errorf("decode people: %w", err)
		}
		return withService(cmd, func(ctx context.Context, svc service.Service) (any, error) {
			return svc.CreateMany(ctx, in)
		})
	},
}

var findByNameCmd = &cobra.Command{
	Use:   "find-by-name NAME",
	Short: "List every person with the exact name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc service.Service) (any, error) {
			return svc.FindByName(ctx, args[0])
		})
	},
}

var findByFoodCmd = &cobra.Command{
	Use:   "find-by-food FOOD",
	Short: "Show the first person whose favorite foods contain FOOD",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc service.Service) (any, error) {
			return svc.FindOneByFavoriteFood(ctx, args[0])
		})
	},
}

var findByIDCmd = &cobra.Command{
	Use:   "find-by-id ID",
	Short: "Show the person with the given id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc service.Service) (any, error) {
			return svc.FindByID(ctx, args[0])
		})
	},
}

var addFoodCmd = &cobra.Command{
	Use:   "add-food ID FOOD",
	Short: "Load a person, append FOOD to their favorite foods and save",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc service.Service) (any, error) {
			return svc.AddFavoriteFoodAndSave(ctx, args[0], args[1])
		})
	},
}

var setAgeCmd = &cobra.Command{
	Use:   "set-age NAME AGE",
	Short: "Atomically set the age of the first person with NAME",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		age, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid age %q: %w", args[1], err)
		}
		return withService(cmd, func(ctx context.Context, svc service.Service) (any, error) {
			return svc.SetAgeByName(ctx, args[0], age)
		})
	},
}

var deleteByIDCmd = &cobra.Command{
	Use:   "delete-by-id ID",
	Short: "Delete the person with the given id and print it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc service.Service) (any, error) {
			return svc.DeleteByID(ctx, args[0])
		})
	},
}

var deleteByNameCmd = &cobra.Command{
	Use:   "delete-by-name NAME",
	Short: "Delete every person with NAME and print the count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc service.Service) (any, error) {
			return svc.DeleteByName(ctx, args[0])
		})
	},
}

var queryCmd = &cobra.Command{
	Use:     "query FOOD",
	Short:   "List people who like FOOD with optional sort, limit and age projection",
	Example: `  persondemo query burritos --limit 2 --sort-by-name --exclude-age`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := person.Query{
			FavoriteFood: args[0],
			Limit:        queryLimit,
			SortByName:   querySortByName,
			ExcludeAge:   queryExcludeAge,
		}
		return withService(cmd, func(ctx context.Context, svc service.Service) (any, error) {
			return svc.Query(ctx, q)
		})
	},
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "Person name (required)")
	createCmd.Flags().IntVar(&createAge, "age", 0, "Person age")
	createCmd.Flags().StringArrayVar(&createFoods, "food", nil, "Favorite food (repeatable)")

	createManyCmd.Flags().StringVarP(&manyFile, "file", "f", "-", "JSON file holding an array of people (- for stdin)")

	queryCmd.Flags().Int64Var(&queryLimit, "limit", 0, "Maximum number of results (0 = no limit)")
	queryCmd.Flags().BoolVar(&querySortByName, "sort-by-name", false, "Sort ascending by name")
	queryCmd.Flags().BoolVar(&queryExcludeAge, "exclude-age", false, "Omit age from the results")
}
