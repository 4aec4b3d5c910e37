package commands

import (
	"context"
	"fmt"
	"strings"
)

type RecipeCmd struct {
	Show   RecipeShowCmd   `cmd:"" help:"Show one recipe in full."`
	Search RecipeSearchCmd `cmd:"" help:"Search recipes by free text."`
}

type RecipeShowCmd struct {
	ID string `arg:"" help:"Recipe ID."`
}

func (c *RecipeShowCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	recipe, err := a.api.Recipe(ctx, c.ID)
	if err != nil {
		return friendly(err)
	}

	fmt.Println(recipe.Title)
	if recipe.Description != "" {
		fmt.Println(recipe.Description)
	}
	fmt.Printf("\nPrep %dm, cook %dm, serves %d", recipe.PrepMinutes, recipe.CookMinutes, recipe.Servings)
	if recipe.Calories > 0 {
		fmt.Printf(", %d kcal", recipe.Calories)
	}
	fmt.Println()
	if len(recipe.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(recipe.Tags, ", "))
	}

	fmt.Println("\nIngredients:")
	for _, ing := range recipe.Ingredients {
		if ing.Unit != "" {
			fmt.Printf("  %g %s %s\n", ing.Quantity, ing.Unit, ing.Name)
			continue
		}
		fmt.Printf("  %g %s\n", ing.Quantity, ing.Name)
	}

	fmt.Println("\nSteps:")
	for i, step := range recipe.Steps {
		fmt.Printf("  %d. %s\n", i+1, step)
	}
	return nil
}

type RecipeSearchCmd struct {
	Query []string `arg:"" help:"Search terms."`
}

func (c *RecipeSearchCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	results, err := a.api.SearchRecipes(ctx, strings.Join(c.Query, " "))
	if err != nil {
		return friendly(err)
	}

	if len(results) == 0 {
		fmt.Println("No recipes found.")
		return nil
	}

	fmt.Printf("%-14s %-40s %-8s %s\n", "ID", "TITLE", "MINUTES", "TAGS")
	for _, r := range results {
		fmt.Printf("%-14s %-40s %-8d %s\n", r.ID, truncate(r.Title, 40), r.TotalMinutes, strings.Join(r.Tags, ","))
	}
	return nil
}
