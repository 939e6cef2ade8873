package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mbraga/giftdraw/engine"
	"github.com/mbraga/giftdraw/internal/algorithms"
	"github.com/mbraga/giftdraw/internal/httpx"
	"github.com/mbraga/giftdraw/internal/snowflake"
	"github.com/mbraga/giftdraw/internal/to"
	"github.com/mbraga/giftdraw/models"
)

// Enter handles POST /api/enter. The anonymous holder of an access
// token gets the draw summary and the names still up for claiming.
func Enter(env *Env, w http.ResponseWriter, r *http.Request) error {
	var params struct {
		Token string `json:"token" schema:"token"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}

	draw, unidentified, err := env.engine().Enter(params.Token)
	if err != nil {
		return engineError(err)
	}
	return to.JSON(w, map[string]any{
		"draw": serializeDraw(draw),
		"participants": algorithms.Map(unidentified, func(p models.Participant) map[string]any {
			return map[string]any{
				"id":   p.ID.String(),
				"name": p.Name,
			}
		}),
	})
}

// Identify handles POST /api/identify. On success the caller receives
// their personal token together with their recipient's name and
// wishlist.
func Identify(env *Env, w http.ResponseWriter, r *http.Request) error {
	var params struct {
		Token         string `json:"token" schema:"token"`
		ParticipantID string `json:"participant_id" schema:"participant_id"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	id, err := snowflake.Parse(params.ParticipantID)
	if err != nil {
		return engineError(engine.ErrParticipantNotFound)
	}

	ident, err := env.engine().Identify(params.Token, id)
	if err != nil {
		return engineError(err)
	}
	return to.JSON(w, map[string]any{
		"participant": map[string]any{
			"id":   ident.Participant.ID.String(),
			"name": ident.Participant.Name,
		},
		"personal_token": ident.PersonalToken,
		"recipient": map[string]any{
			"name":     ident.Recipient.Name,
			"wishlist": ident.Recipient.Wishlist,
		},
	})
}

// SantaShow handles GET /api/santa/{token}: the repeatable disclosure
// behind a personal token.
func SantaShow(env *Env, w http.ResponseWriter, r *http.Request) error {
	participant, err := env.engine().Disclose(chi.URLParam(r, "token"))
	if err != nil {
		return engineError(err)
	}
	return to.JSON(w, map[string]any{
		"name":     participant.Name,
		"wishlist": participant.Wishlist,
		"recipient": map[string]any{
			"name":     participant.AssignedTo.Name,
			"wishlist": participant.AssignedTo.Wishlist,
		},
	})
}

// WishlistUpdate handles PUT /api/santa/{token}/wishlist.
func WishlistUpdate(env *Env, w http.ResponseWriter, r *http.Request) error {
	var params struct {
		Wishlist string `json:"wishlist" schema:"wishlist"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	if err := env.engine().UpdateWishlist(chi.URLParam(r, "token"), params.Wishlist); err != nil {
		return engineError(err)
	}
	return to.JSON(w, map[string]any{"updated": true})
}
