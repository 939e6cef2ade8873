package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/mbraga/giftdraw/api"
	"github.com/mbraga/giftdraw/auth"
	"github.com/mbraga/giftdraw/internal/httpx"
	"github.com/mbraga/giftdraw/internal/to"
	"github.com/mbraga/giftdraw/models"
)

type ServeCmd struct {
	Addr   string `help:"address to listen" default:"127.0.0.1:8080"`
	Secret string `required:"" env:"GIFTDRAW_SECRET" help:"secret used to sign organizer session tokens"`
}

func (s *ServeCmd) Run(ctx *Context) error {
	db, err := gorm.Open(ctx.Dialector, &ctx.Config)
	if err != nil {
		return err
	}
	if err := configureDB(db); err != nil {
		return err
	}

	env := &models.Env{
		DB:     db,
		Logger: ctx.Logger,
	}
	authEnv := &auth.Env{
		Env:    env,
		Secret: []byte(s.Secret),
	}
	authFn := func(r *http.Request) *auth.Env { return authEnv }
	apiFn := func(r *http.Request) *api.Env { return &api.Env{Env: authEnv} }

	c := chi.NewRouter()
	c.Use(middleware.RequestID)
	c.Use(middleware.RealIP)
	c.Use(middleware.Logger)
	c.Use(middleware.Recoverer)

	c.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", httpx.HandlerFunc(authFn, auth.Register))
			r.Post("/login", httpx.HandlerFunc(authFn, auth.Login))
		})

		// organizer surface, session token required
		r.Route("/draws", func(r chi.Router) {
			r.Post("/", httpx.HandlerFunc(apiFn, api.DrawsCreate))
			r.Get("/", httpx.HandlerFunc(apiFn, api.DrawsIndex))
			r.Get("/stats", httpx.HandlerFunc(apiFn, api.DrawsStats))
			r.Get("/{id:[0-9]+}", httpx.HandlerFunc(apiFn, api.DrawsShow))
			r.Put("/{id:[0-9]+}", httpx.HandlerFunc(apiFn, api.DrawsUpdate))
			r.Delete("/{id:[0-9]+}", httpx.HandlerFunc(apiFn, api.DrawsDelete))
			r.Post("/{id:[0-9]+}/execute", httpx.HandlerFunc(apiFn, api.DrawsExecute))
		})

		// anonymous surface, gated by token possession alone
		r.Post("/enter", httpx.HandlerFunc(apiFn, api.Enter))
		r.Post("/identify", httpx.HandlerFunc(apiFn, api.Identify))
		r.Route("/santa/{token:[0-9a-f]+}", func(r chi.Router) {
			r.Get("/", httpx.HandlerFunc(apiFn, api.SantaShow))
			r.Put("/wishlist", httpx.HandlerFunc(apiFn, api.WishlistUpdate))
		})
	})

	c.Method("GET", "/metrics", promhttp.Handler())
	c.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			to.JSON(w, map[string]any{"status": "degraded"})
			return
		}
		to.JSON(w, map[string]any{"status": "ok"})
	})

	if ctx.Debug {
		walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			route = strings.Replace(route, "/*/", "/", -1)
			fmt.Printf("%s %s\n", method, route)
			return nil
		}
		if err := chi.Walk(c, walkFunc); err != nil {
			return err
		}
	}

	ctx.Logger.Info("listening", "addr", s.Addr)
	svr := &http.Server{
		Addr:         s.Addr,
		Handler:      c,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	return svr.ListenAndServe()
}
