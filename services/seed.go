package services

import (
	"context"
	"log/slog"
)

var DefaultCategories = []CategoryInput{
	{Title: "General", Description: "Anything that does not fit elsewhere"},
	{Title: "Announcements", Description: "News from the forum team"},
	{Title: "Help", Description: "Questions and answers"},
	{Title: "Off-topic", Description: "Casual conversation"},
}

// Seed creates the given accounts and the default categories when missing. It is safe to rerun.
func Seed(ctx context.Context, accounts *AccountService, categories *CategoryService, users []CreateUserInput, log *slog.Logger) error {
	for _, in := range users {
		user, created, err := accounts.EnsureUser(ctx, in)
		if err != nil {
			return err
		}
		if created {
			log.Info("seeded user", "login", user.Login, "role", user.Role)
		}
	}
	return categories.EnsureDefaults(ctx, DefaultCategories)
}
