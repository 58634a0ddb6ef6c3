package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	types "github.com/yungbote/vamshavali-backend/internal/domain"
)

func SeedPerson(tb testing.TB, ctx context.Context, tx *gorm.DB, id, name, gender string) *types.Person {
	tb.Helper()
	p := &types.Person{ID: id, Name: name, Gender: gender}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed person: %v", err)
	}
	return p
}

// SeedRelation stores "source is target's typ".
func SeedRelation(tb testing.TB, ctx context.Context, tx *gorm.DB, source, target, typ string) *types.Relation {
	tb.Helper()
	r := &types.Relation{SourceID: source, TargetID: target, Type: typ}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed relation: %v", err)
	}
	return r
}
