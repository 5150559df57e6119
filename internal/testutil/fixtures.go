package testutil

import (
	"context"
	"testing"

	"llm-usage-ledger/internal/domain"
	"llm-usage-ledger/internal/repo"
)

func SeedLlm(tb testing.TB, ctx context.Context, s *repo.Store, name string, price int) int64 {
	tb.Helper()
	var id int64
	err := s.Do(ctx, func(r domain.Repositories) error {
		var e error
		id, e = r.Llms.Insert(ctx, &domain.Llm{Name: name, PricePerToken: price})
		return e
	})
	if err != nil {
		tb.Fatalf("seed llm: %v", err)
	}
	return id
}

func SeedUser(tb testing.TB, ctx context.Context, s *repo.Store, name, email string) int64 {
	tb.Helper()
	var id int64
	err := s.Do(ctx, func(r domain.Repositories) error {
		var e error
		id, e = r.Users.Insert(ctx, &domain.User{Name: name, Email: email, Password: "$2a$10$hash"})
		return e
	})
	if err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return id
}

func SeedUsage(tb testing.TB, ctx context.Context, s *repo.Store, userID, llmID int64, tokens int) int64 {
	tb.Helper()
	var id int64
	err := s.Do(ctx, func(r domain.Repositories) error {
		var e error
		id, e = r.Usages.Insert(ctx, &domain.LlmUsage{UserID: userID, LlmID: llmID, UsedToken: tokens})
		return e
	})
	if err != nil {
		tb.Fatalf("seed usage: %v", err)
	}
	return id
}
