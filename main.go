package main

import (
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"
)

type Context struct {
	Debug     bool
	Logger    *slog.Logger
	Dialector gorm.Dialector

	gorm.Config
}

var cli struct {
	Debug bool   `help:"Enable debug mode."`
	DSN   string `env:"GIFTDRAW_DSN" default:"giftdraw.db" help:"Database data source name."`

	Serve         ServeCmd         `cmd:"" help:"Serve the draw API."`
	AutoMigrate   AutoMigrateCmd   `cmd:"" help:"Create or update the database schema."`
	CreateAccount CreateAccountCmd `cmd:"" help:"Create an organizer account."`
	Housekeeping  HousekeepingCmd  `cmd:"" help:"Purge stale access tokens."`
	Healthcheck   HealthcheckCmd   `cmd:"" help:"Probe a running server."`
}

func main() {
	ctx := kong.Parse(&cli)
	err := ctx.Run(&Context{
		Debug:     cli.Debug,
		Logger:    slog.New(slog.NewTextHandler(os.Stderr)),
		Dialector: newDialector(cli.DSN),
		Config: gorm.Config{
			TranslateError: true,
		},
	})
	ctx.FatalIfErrorf(err)
}
