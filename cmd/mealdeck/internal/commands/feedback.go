package commands

import (
	"context"
	"fmt"

	"github.com/mealdeck/mealdeck/internal/models"
)

type FeedbackCmd struct {
	Send  FeedbackSendCmd  `cmd:"" help:"Rate a recipe you cooked."`
	Stats FeedbackStatsCmd `cmd:"" help:"Show aggregate ratings."`
}

type FeedbackSendCmd struct {
	Recipe  string `arg:"" help:"Recipe ID to rate."`
	Rating  int    `help:"Rating from 1 to 5." required:""`
	Comment string `help:"Optional comment."`
}

func (c *FeedbackSendCmd) Run(ctx context.Context, globals *Globals) error {
	if c.Rating < 1 || c.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", c.Rating)
	}

	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	err = a.api.SubmitFeedback(ctx, models.Feedback{
		RecipeID: c.Recipe,
		Rating:   c.Rating,
		Comment:  c.Comment,
	})
	if err != nil {
		return friendly(err)
	}

	fmt.Println("Thanks, rating saved.")
	return nil
}

type FeedbackStatsCmd struct{}

func (c *FeedbackStatsCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	stats, err := a.api.FeedbackStats(ctx)
	if err != nil {
		return friendly(err)
	}

	fmt.Printf("%d ratings, %.1f average\n", stats.TotalRatings, stats.AverageRating)
	if len(stats.TopRecipes) == 0 {
		return nil
	}

	fmt.Printf("\n%-14s %-40s %-8s %s\n", "ID", "TITLE", "AVG", "COUNT")
	for _, r := range stats.TopRecipes {
		fmt.Printf("%-14s %-40s %-8.1f %d\n", r.RecipeID, truncate(r.Title, 40), r.AverageRating, r.RatingCount)
	}
	return nil
}
