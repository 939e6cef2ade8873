package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/mbraga/giftdraw/engine"
	"github.com/mbraga/giftdraw/internal/algorithms"
	"github.com/mbraga/giftdraw/internal/httpx"
	"github.com/mbraga/giftdraw/internal/to"
	"github.com/mbraga/giftdraw/models"
)

type drawParams struct {
	Name         string   `json:"name" schema:"name"`
	Date         string   `json:"date" schema:"date"`
	Participants []string `json:"participants" schema:"participants"`
}

func (p *drawParams) date() (time.Time, error) {
	if p.Date == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse(dateFormat, p.Date)
	if err != nil {
		return time.Time{}, httpx.Error(http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
	}
	return date, nil
}

// DrawsCreate handles POST /api/draws.
func DrawsCreate(env *Env, w http.ResponseWriter, r *http.Request) error {
	account, err := env.Authenticate(r)
	if err != nil {
		return err
	}
	var params drawParams
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	date, err := params.date()
	if err != nil {
		return err
	}

	draw, err := env.engine().Create(params.Name, date, params.Participants, account.ID)
	if err != nil {
		return engineError(err)
	}
	w.WriteHeader(http.StatusCreated)
	return to.JSON(w, serializeDraw(draw))
}

// DrawsIndex handles GET /api/draws.
func DrawsIndex(env *Env, w http.ResponseWriter, r *http.Request) error {
	account, err := env.Authenticate(r)
	if err != nil {
		return err
	}
	summaries, err := env.engine().List(account.ID)
	if err != nil {
		return engineError(err)
	}
	return to.JSON(w, map[string]any{
		"draws": algorithms.Map(summaries, func(s models.DrawSummary) map[string]any {
			return map[string]any{
				"id":           s.ID.String(),
				"name":         s.Name,
				"date":         s.Date.Format(dateFormat),
				"status":       string(s.Status),
				"participants": s.Participants,
				"assigned":     s.Assigned,
				"identified":   s.Identified,
			}
		}),
	})
}

// DrawsShow handles GET /api/draws/{id}.
func DrawsShow(env *Env, w http.ResponseWriter, r *http.Request) error {
	account, err := env.Authenticate(r)
	if err != nil {
		return err
	}
	id, err := urlID(r)
	if err != nil {
		return err
	}
	draw, err := env.engine().Get(id, account.ID)
	if err != nil {
		return engineError(err)
	}
	out := serializeDraw(draw)
	out["participants"] = algorithms.Map(draw.Participants, func(p models.Participant) map[string]any {
		return serializeParticipant(&p)
	})
	return to.JSON(w, out)
}

// DrawsUpdate handles PUT /api/draws/{id}.
func DrawsUpdate(env *Env, w http.ResponseWriter, r *http.Request) error {
	account, err := env.Authenticate(r)
	if err != nil {
		return err
	}
	id, err := urlID(r)
	if err != nil {
		return err
	}
	var params drawParams
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	date, err := params.date()
	if err != nil {
		return err
	}

	changes := engine.Edit{Name: params.Name, Date: date, Roster: params.Participants}
	if err := env.engine().Edit(id, changes, account.ID); err != nil {
		return engineError(err)
	}
	return to.JSON(w, map[string]any{"updated": id.String()})
}

// DrawsDelete handles DELETE /api/draws/{id}.
func DrawsDelete(env *Env, w http.ResponseWriter, r *http.Request) error {
	account, err := env.Authenticate(r)
	if err != nil {
		return err
	}
	id, err := urlID(r)
	if err != nil {
		return err
	}
	if err := env.engine().Delete(id, account.ID); err != nil {
		return engineError(err)
	}
	return to.JSON(w, map[string]any{"deleted": id.String()})
}

// DrawsExecute handles POST /api/draws/{id}/execute. The returned
// access token is shown exactly once; the organizer passes it on to
// the roster out of band.
func DrawsExecute(env *Env, w http.ResponseWriter, r *http.Request) error {
	account, err := env.Authenticate(r)
	if err != nil {
		return err
	}
	id, err := urlID(r)
	if err != nil {
		return err
	}
	token, err := env.engine().Execute(id, account.ID)
	if err != nil {
		return engineError(err)
	}
	return to.JSON(w, map[string]any{
		"draw":         id.String(),
		"access_token": token,
	})
}

// DrawsStats handles GET /api/draws/stats.
func DrawsStats(env *Env, w http.ResponseWriter, r *http.Request) error {
	account, err := env.Authenticate(r)
	if err != nil {
		return err
	}
	stats, err := env.engine().Stats(account.ID)
	if err != nil {
		return engineError(err)
	}
	return to.JSON(w, map[string]any{
		"total":     stats.Total,
		"pending":   stats.Pending,
		"completed": stats.Completed,
	})
}
