package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mealdeck/mealdeck/internal/api"
	"github.com/mealdeck/mealdeck/internal/models"
)

type PlanCmd struct {
	Show     PlanShowCmd     `cmd:"" default:"1" help:"Show the current weekly plan."`
	Generate PlanGenerateCmd `cmd:"" help:"Generate a fresh weekly plan."`
}

type PlanShowCmd struct{}

func (c *PlanShowCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	plan, err := a.api.CurrentPlan(ctx)
	if err != nil {
		if apiErr, ok := api.AsError(err); ok && apiErr.Status == 404 {
			fmt.Println("No plan yet. Run 'mealdeck plan generate' to create one.")
			return nil
		}
		return friendly(err)
	}

	printPlan(plan)
	return nil
}

type PlanGenerateCmd struct {
	Servings int      `help:"Override the stored servings preference." default:"0"`
	Exclude  []string `help:"Recipe IDs to leave out of the new plan."`
}

func (c *PlanGenerateCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	plan, err := a.api.GeneratePlan(ctx, models.GeneratePlanRequest{
		Servings:         c.Servings,
		ExcludeRecipeIDs: c.Exclude,
	})
	if err != nil {
		return friendly(err)
	}

	fmt.Println("Generated a new weekly plan.")
	printPlan(plan)
	return nil
}

var dayOrder = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
}

var slotOrder = map[string]int{
	models.SlotBreakfast: 0,
	models.SlotLunch:     1,
	models.SlotDinner:    2,
}

func printPlan(plan *models.MealPlan) {
	if !plan.WeekStart.IsZero() {
		fmt.Printf("Week of %s\n\n", plan.WeekStart.Format(time.DateOnly))
	}

	meals := make([]models.PlannedMeal, len(plan.Meals))
	copy(meals, plan.Meals)
	sort.SliceStable(meals, func(i, j int) bool {
		if dayOrder[meals[i].Day] != dayOrder[meals[j].Day] {
			return dayOrder[meals[i].Day] < dayOrder[meals[j].Day]
		}
		return slotOrder[meals[i].Slot] < slotOrder[meals[j].Slot]
	})

	fmt.Printf("%-10s %-10s %-40s %-10s %s\n", "DAY", "SLOT", "MEAL", "SERVINGS", "RECIPE")
	lastDay := ""
	for _, m := range meals {
		day := m.Day
		if day == lastDay {
			day = ""
		} else {
			lastDay = day
		}
		fmt.Printf("%-10s %-10s %-40s %-10d %s\n", day, m.Slot, truncate(m.Title, 40), m.Servings, m.RecipeID)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
