package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/group"
	"gorm.io/gorm"
)

type HousekeepingCmd struct {
	Retention time.Duration `help:"how long consumed access tokens are kept" default:"720h"`
}

func (c *HousekeepingCmd) Run(ctx *Context) error {
	db, err := gorm.Open(ctx.Dialector, &ctx.Config)
	if err != nil {
		return err
	}

	g := group.New(context.Background())
	g.Add(func(context.Context) error {
		// consumed tokens are inert forever, keep them only long
		// enough to be useful when debugging a complaint
		res := db.Exec(`
			DELETE FROM access_tokens
			WHERE consumed AND created_at < ?
		`, time.Now().Add(-c.Retention))
		if res.Error != nil {
			return res.Error
		}
		fmt.Println("deleted", res.RowsAffected, "expired consumed access tokens")
		return nil
	})
	g.Add(func(context.Context) error {
		res := db.Exec(`
			DELETE FROM access_tokens
			WHERE draw_id NOT IN (SELECT id FROM draws)
		`)
		if res.Error != nil {
			return res.Error
		}
		fmt.Println("deleted", res.RowsAffected, "orphaned access tokens")
		return nil
	})
	return g.Wait()
}
