// Package engine orchestrates the draw lifecycle: creating and
// editing rosters, executing the assignment, and the anonymous
// identification workflow. All state lives behind the injected
// models.Env; every transition runs in its own transaction.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mbraga/giftdraw/internal/metrics"
	"github.com/mbraga/giftdraw/internal/snowflake"
	"github.com/mbraga/giftdraw/models"
	"gorm.io/gorm"
)

type Service struct {
	env *models.Env
}

func NewService(env *models.Env) *Service {
	return &Service{env: env}
}

// Create stores a new pending draw with one participant per roster
// name. The roster needs at least two names; names, the draw name and
// the date must be non-empty.
func (s *Service) Create(name string, date time.Time, roster []string, ownerID snowflake.ID) (*models.Draw, error) {
	if err := validateRoster(name, date, roster); err != nil {
		return nil, err
	}
	var draw *models.Draw
	err := s.env.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		draw, err = models.NewDraws(tx).Create(name, date, ownerID)
		if err != nil {
			return err
		}
		_, err = models.NewParticipants(tx).CreateRoster(draw.ID, roster)
		return err
	})
	if err != nil {
		return nil, err
	}
	return draw, nil
}

// An Edit carries the changes to apply to a pending draw. A zero Name
// or Date leaves the field untouched. A nil Roster keeps the current
// participants; a non-nil Roster discards and replaces them wholesale.
type Edit struct {
	Name   string
	Date   time.Time
	Roster []string
}

// Edit applies changes to a draw that is still pending and owned by
// ownerID.
func (s *Service) Edit(drawID snowflake.ID, changes Edit, ownerID snowflake.ID) error {
	return s.env.DB.Transaction(func(tx *gorm.DB) error {
		draw, err := s.ownedPending(tx, drawID, ownerID)
		if err != nil {
			return err
		}
		if changes.Roster != nil {
			// A pending draw never carries assignments; finding one
			// here means the lifecycle invariant is already broken,
			// and replacing the roster would bury the evidence.
			var assigned int64
			if err := tx.Model(&models.Participant{}).
				Where("draw_id = ? and assigned_to_id is not null", drawID).
				Count(&assigned).Error; err != nil {
				return err
			}
			if assigned > 0 {
				return fmt.Errorf("%w: pending draw %s already has assignments", ErrInvalidState, drawID)
			}
		}
		name, date := changes.Name, changes.Date
		if name == "" {
			name = draw.Name
		}
		if date.IsZero() {
			date = draw.Date
		}
		if changes.Roster != nil {
			if err := validateRoster(name, date, changes.Roster); err != nil {
				return err
			}
			if _, err := models.NewParticipants(tx).Replace(drawID, changes.Roster); err != nil {
				return err
			}
		}
		return models.NewDraws(tx).Update(drawID, name, date)
	})
}

// Delete removes a pending draw and, through cascading constraints,
// its participants and access tokens.
func (s *Service) Delete(drawID, ownerID snowflake.ID) error {
	return s.env.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.ownedPending(tx, drawID, ownerID); err != nil {
			return err
		}
		return models.NewDraws(tx).Delete(drawID)
	})
}

// Execute runs the assignment. On success the draw is completed, every
// participant has a recipient, any prior live access token is retired
// and a fresh one is returned for the organizer to distribute. The
// whole transition commits atomically: a reader can never observe a
// completed draw with a partial assignment.
func (s *Service) Execute(drawID, ownerID snowflake.ID) (string, error) {
	var token string
	err := s.env.DB.Transaction(func(tx *gorm.DB) error {
		draw, err := models.NewDraws(tx).Find(drawID)
		if err != nil {
			return err
		}
		if draw.AccountID != ownerID {
			return ErrForbidden
		}

		participants := models.NewParticipants(tx)
		roster, err := participants.ListByDraw(drawID)
		if err != nil {
			return err
		}
		if len(roster) < 2 {
			return ErrInsufficientParticipants
		}

		// The guarded flip decides concurrent executions: exactly one
		// caller wins, everyone else sees AlreadyCompleted.
		won, err := models.NewDraws(tx).Complete(drawID)
		if err != nil {
			return err
		}
		if !won {
			return ErrAlreadyCompleted
		}

		recipients, err := derange(roster)
		if err != nil {
			if errors.Is(err, ErrDerangementExhausted) {
				s.env.Log().Error("shuffle retries exhausted", "draw", drawID, "participants", len(roster))
			}
			return err
		}
		assignments := make(map[snowflake.ID]snowflake.ID, len(roster))
		for k := range roster {
			assignments[roster[k].ID] = recipients[k].ID
		}
		if err := participants.Assign(assignments); err != nil {
			return err
		}

		accessTokens := models.NewAccessTokens(tx)
		if err := accessTokens.ConsumeForDraw(drawID); err != nil {
			return err
		}
		at, err := accessTokens.Issue(drawID)
		if err != nil {
			return err
		}
		token = at.Token
		return nil
	})
	if err != nil {
		return "", err
	}
	metrics.DrawsExecuted.Inc()
	s.env.Log().Info("draw executed", "draw", drawID)
	return token, nil
}

// List returns the owner's draws with participant counts, newest first.
func (s *Service) List(ownerID snowflake.ID) ([]models.DrawSummary, error) {
	return models.NewDraws(s.env.DB).ListByAccount(ownerID)
}

// Get returns one of the owner's draws with its roster.
func (s *Service) Get(drawID, ownerID snowflake.ID) (*models.Draw, error) {
	draw, err := models.NewDraws(s.env.DB).FindWithParticipants(drawID)
	if err != nil {
		return nil, err
	}
	if draw.AccountID != ownerID {
		return nil, ErrForbidden
	}
	return draw, nil
}

// Stats returns the owner's draw lifecycle counts.
func (s *Service) Stats(ownerID snowflake.ID) (*models.DrawStats, error) {
	return models.NewDraws(s.env.DB).Stats(ownerID)
}

// ownedPending loads the draw and enforces ownership and the pending
// state, in that order, so a non-owner learns nothing about the
// draw's lifecycle.
func (s *Service) ownedPending(tx *gorm.DB, drawID, ownerID snowflake.ID) (*models.Draw, error) {
	draw, err := models.NewDraws(tx).Find(drawID)
	if err != nil {
		return nil, err
	}
	if draw.AccountID != ownerID {
		return nil, ErrForbidden
	}
	if draw.Status != models.DrawPending {
		return nil, ErrInvalidState
	}
	return draw, nil
}

func validateRoster(name string, date time.Time, roster []string) error {
	if strings.TrimSpace(name) == "" || date.IsZero() {
		return ErrInvalidInput
	}
	if len(roster) < 2 {
		return ErrInsufficientParticipants
	}
	for _, n := range roster {
		if strings.TrimSpace(n) == "" {
			return ErrInvalidInput
		}
	}
	return nil
}
