package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context carries the request context and, inside a transaction, its handle.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

func Background() Context { return Context{Ctx: context.Background()} }

// DB returns the transaction when set, else fallback, bound to Ctx.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	db := c.Tx
	if db == nil {
		db = fallback
	}
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return db.WithContext(ctx)
}
