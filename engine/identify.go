package engine

import (
	"errors"
	"fmt"

	"github.com/mbraga/giftdraw/internal/metrics"
	"github.com/mbraga/giftdraw/internal/snowflake"
	"github.com/mbraga/giftdraw/internal/tokens"
	"github.com/mbraga/giftdraw/models"
	"gorm.io/gorm"
)

// Enter validates an access token and returns the draw it opens along
// with the participants that have not yet claimed an identity.
// Identified participants are withheld so nobody can claim a name
// twice.
func (s *Service) Enter(accessToken string) (*models.Draw, []models.Participant, error) {
	at, err := models.NewAccessTokens(s.env.DB).Validate(accessToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, err
	}
	draw, err := models.NewDraws(s.env.DB).Find(at.DrawID)
	if err != nil {
		return nil, nil, err
	}
	unidentified, err := models.NewParticipants(s.env.DB).ListUnidentified(at.DrawID)
	if err != nil {
		return nil, nil, err
	}
	return draw, unidentified, nil
}

// An Identification is the outcome of a successful identify call: the
// claimed participant, who they must gift to, and the durable token
// for returning to their disclosure later.
type Identification struct {
	Participant   *models.Participant
	Recipient     *models.Participant
	PersonalToken string
}

// Identify claims a participant on behalf of the anonymous holder of
// accessToken. Exactly one caller can claim each participant; the
// winner gets a personal token, losers get ErrAlreadyIdentified. When
// the last participant of the draw identifies, the draw's access
// token is consumed in the same transaction, so the count it depends
// on cannot race with the identification write.
func (s *Service) Identify(accessToken string, participantID snowflake.ID) (*Identification, error) {
	var ident Identification
	err := s.env.DB.Transaction(func(tx *gorm.DB) error {
		at, err := models.NewAccessTokens(tx).Validate(accessToken)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		participants := models.NewParticipants(tx)
		participant, err := participants.Find(participantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}
		if participant.DrawID != at.DrawID {
			return ErrParticipantNotFound
		}
		if participant.AssignedToID == nil {
			// Access tokens are only minted by Execute, so an
			// unassigned participant here means corrupted state.
			return fmt.Errorf("participant %s has no assignment", participant.ID)
		}

		personalToken := tokens.New()
		won, err := participants.MarkIdentified(participant.ID, personalToken)
		if err != nil {
			return err
		}
		if !won {
			return ErrAlreadyIdentified
		}

		recipient, err := participants.Find(*participant.AssignedToID)
		if err != nil {
			return err
		}

		remaining, err := participants.CountUnidentified(at.DrawID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := models.NewAccessTokens(tx).Consume(at.ID); err != nil {
				return err
			}
		}

		participant.Identified = true
		participant.PersonalToken = &personalToken
		ident = Identification{
			Participant:   participant,
			Recipient:     recipient,
			PersonalToken: personalToken,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ParticipantsIdentified.Inc()
	return &ident, nil
}

// Disclose returns the participant holding personalToken, with their
// recipient preloaded. It never consumes anything and can be repeated
// indefinitely.
func (s *Service) Disclose(personalToken string) (*models.Participant, error) {
	participant, err := models.NewParticipants(s.env.DB).FindByPersonalToken(personalToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidPersonalToken
		}
		return nil, err
	}
	return participant, nil
}

// UpdateWishlist overwrites the wishlist of the participant holding
// personalToken. Last write wins.
func (s *Service) UpdateWishlist(personalToken, text string) error {
	participant, err := s.Disclose(personalToken)
	if err != nil {
		return err
	}
	return models.NewParticipants(s.env.DB).UpdateWishlist(participant.ID, text)
}
