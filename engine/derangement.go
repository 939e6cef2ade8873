package engine

import (
	"math/rand"

	"github.com/mbraga/giftdraw/models"
)

// maxShuffleAttempts bounds the rejection sampling loop. Rejection
// converges almost immediately (the acceptance probability tends to
// 1/e), so the bound is a safety valve, not a working limit.
const maxShuffleAttempts = 100

// derange returns a permutation of roster with no fixed points: the
// participant at index k of the result is the recipient for the
// participant at index k of roster, and is never the same person.
//
// The permutation is produced by shuffling until no participant maps
// to themselves. Bounded rejection over a uniform shuffle is not
// perfectly uniform over all derangements, which is an accepted
// trade-off at the group sizes this serves.
func derange(roster []models.Participant) ([]models.Participant, error) {
	if len(roster) < 2 {
		return nil, ErrInsufficientParticipants
	}
	for attempt := 0; attempt < maxShuffleAttempts; attempt++ {
		shuffled := append([]models.Participant(nil), roster...)
		for i := len(shuffled) - 1; i > 0; i-- {
			j := rand.Intn(i + 1)
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		}
		if isDerangement(roster, shuffled) {
			return shuffled, nil
		}
	}
	return nil, ErrDerangementExhausted
}

func isDerangement(original, shuffled []models.Participant) bool {
	for k := range original {
		if original[k].ID == shuffled[k].ID {
			return false
		}
	}
	return true
}
