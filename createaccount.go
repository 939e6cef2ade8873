package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mbraga/giftdraw/models"
	"gorm.io/gorm"
)

type CreateAccountCmd struct {
	Name     string `required:"" help:"display name of the organizer"`
	Email    string `required:"" help:"email address of the organizer"`
	Password string `required:"" help:"password of the organizer"`
}

func (c *CreateAccountCmd) Run(ctx *Context) error {
	if !strings.Contains(c.Email, "@") {
		return errors.New("invalid email address")
	}
	if len(c.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	db, err := gorm.Open(ctx.Dialector, &ctx.Config)
	if err != nil {
		return err
	}

	account, err := models.NewAccounts(db).Create(c.Name, c.Email, c.Password)
	if err != nil {
		return err
	}
	fmt.Println("created account", account.ID, "for", account.Email)
	return nil
}
