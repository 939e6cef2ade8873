package main

import (
	"context"
	"fmt"
	"time"

	"github.com/carlmjohnson/requests"
)

type HealthcheckCmd struct {
	URL     string        `help:"base URL of the server to probe" default:"http://127.0.0.1:8080"`
	Timeout time.Duration `help:"probe timeout" default:"5s"`
}

func (c *HealthcheckCmd) Run(ctx *Context) error {
	rctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	var status struct {
		Status string `json:"status"`
	}
	err := requests.
		URL(c.URL + "/healthz").
		ToJSON(&status).
		Fetch(rctx)
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}
	fmt.Println(status.Status)
	return nil
}
