// Package api exposes the organizer and anonymous HTTP surfaces over
// the draw engine.
package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mbraga/giftdraw/auth"
	"github.com/mbraga/giftdraw/engine"
	"github.com/mbraga/giftdraw/internal/httpx"
	"github.com/mbraga/giftdraw/internal/snowflake"
	"github.com/mbraga/giftdraw/models"
	"gorm.io/gorm"
)

type Env struct {
	*auth.Env
}

func (e *Env) engine() *engine.Service {
	return engine.NewService(e.Env.Env)
}

// engineError translates the engine's error conditions into HTTP
// status codes. Anything unrecognized stays a 500.
func engineError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, engine.ErrInvalidInput),
		errors.Is(err, engine.ErrInsufficientParticipants):
		return httpx.Error(http.StatusBadRequest, err)
	case errors.Is(err, engine.ErrForbidden):
		return httpx.Error(http.StatusForbidden, err)
	case errors.Is(err, engine.ErrInvalidToken),
		errors.Is(err, engine.ErrInvalidPersonalToken):
		return httpx.Error(http.StatusUnauthorized, err)
	case errors.Is(err, engine.ErrParticipantNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return httpx.Error(http.StatusNotFound, err)
	case errors.Is(err, engine.ErrInvalidState),
		errors.Is(err, engine.ErrAlreadyCompleted),
		errors.Is(err, engine.ErrAlreadyIdentified):
		return httpx.Error(http.StatusConflict, err)
	default:
		return err
	}
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request) (snowflake.ID, error) {
	id, err := snowflake.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return 0, httpx.Error(http.StatusNotFound, errors.New("draw not found"))
	}
	return id, nil
}

const dateFormat = "2006-01-02"

func serializeDraw(d *models.Draw) map[string]any {
	return map[string]any{
		"id":     d.ID.String(),
		"name":   d.Name,
		"date":   d.Date.Format(dateFormat),
		"status": string(d.Status),
	}
}

func serializeParticipant(p *models.Participant) map[string]any {
	out := map[string]any{
		"id":         p.ID.String(),
		"name":       p.Name,
		"identified": p.Identified,
	}
	if p.AssignedTo != nil {
		out["recipient"] = map[string]any{
			"name":     p.AssignedTo.Name,
			"wishlist": p.AssignedTo.Wishlist,
		}
	}
	return out
}
