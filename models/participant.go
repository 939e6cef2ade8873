package models

import (
	"time"

	"github.com/mbraga/giftdraw/internal/snowflake"
	"gorm.io/gorm"
)

// A Participant is one member of a Draw's roster. AssignedToID points
// at the participant they must gift to; it is nil until the draw is
// executed and never points back at the participant itself.
// PersonalToken is set once, when the participant identifies.
type Participant struct {
	snowflake.ID  `gorm:"primarykey;autoIncrement:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DrawID        snowflake.ID `gorm:"not null;index"`
	Draw          *Draw        `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	Name          string       `gorm:"size:64;not null"`
	AssignedToID  *snowflake.ID
	AssignedTo    *Participant `gorm:"foreignKey:AssignedToID;<-:false;"`
	Identified    bool         `gorm:"not null;default:false"`
	Wishlist      string       `gorm:"size:2048;not null;default:''"`
	PersonalToken *string      `gorm:"size:32;uniqueIndex"`
}

type Participants struct {
	db *gorm.DB
}

func NewParticipants(db *gorm.DB) *Participants {
	return &Participants{db: db}
}

// CreateRoster stores one unassigned, unidentified participant per
// name, in roster order.
func (p *Participants) CreateRoster(drawID snowflake.ID, names []string) ([]Participant, error) {
	roster := make([]Participant, 0, len(names))
	for _, name := range names {
		roster = append(roster, Participant{
			ID:     snowflake.Now(),
			DrawID: drawID,
			Name:   name,
		})
	}
	if err := p.db.Create(&roster).Error; err != nil {
		return nil, err
	}
	return roster, nil
}

// Replace discards the draw's entire roster and creates a new one.
func (p *Participants) Replace(drawID snowflake.ID, names []string) ([]Participant, error) {
	if err := p.db.Where("draw_id = ?", drawID).Delete(&Participant{}).Error; err != nil {
		return nil, err
	}
	return p.CreateRoster(drawID, names)
}

// Find returns the participant with the given id.
func (p *Participants) Find(id snowflake.ID) (*Participant, error) {
	var participant Participant
	if err := p.db.First(&participant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

// FindByPersonalToken returns the participant holding token, with
// their recipient preloaded.
func (p *Participants) FindByPersonalToken(token string) (*Participant, error) {
	var participant Participant
	if err := p.db.Preload("AssignedTo").First(&participant, "personal_token = ?", token).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

// ListByDraw returns the draw's roster in creation order, recipients
// preloaded.
func (p *Participants) ListByDraw(drawID snowflake.ID) ([]Participant, error) {
	var roster []Participant
	err := p.db.Preload("AssignedTo").Where("draw_id = ?", drawID).Order("id").Find(&roster).Error
	return roster, err
}

// ListUnidentified returns the roster members that have not yet
// claimed their identity.
func (p *Participants) ListUnidentified(drawID snowflake.ID) ([]Participant, error) {
	var roster []Participant
	err := p.db.Where("draw_id = ? and not identified", drawID).Order("id").Find(&roster).Error
	return roster, err
}

// CountUnidentified returns how many roster members have not yet
// claimed their identity.
func (p *Participants) CountUnidentified(drawID snowflake.ID) (int64, error) {
	var n int64
	err := p.db.Model(&Participant{}).Where("draw_id = ? and not identified", drawID).Count(&n).Error
	return n, err
}

// Assign records the recipient for every giver. Callers run Assign
// inside the transaction that completes the draw so the batch is all
// or nothing.
func (p *Participants) Assign(assignments map[snowflake.ID]snowflake.ID) error {
	for giver, recipient := range assignments {
		res := p.db.Model(&Participant{}).Where("id = ?", giver).Update("assigned_to_id", recipient)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// MarkIdentified flips the participant's identified flag and stores
// their personal token. The flip happens at most once; MarkIdentified
// reports whether this call won it.
func (p *Participants) MarkIdentified(id snowflake.ID, personalToken string) (bool, error) {
	res := p.db.Model(&Participant{}).
		Where("id = ? and not identified", id).
		Updates(map[string]any{"identified": true, "personal_token": personalToken})
	return res.RowsAffected > 0, res.Error
}

// UpdateWishlist overwrites the participant's wishlist. Last write wins.
func (p *Participants) UpdateWishlist(id snowflake.ID, text string) error {
	return p.db.Model(&Participant{}).Where("id = ?", id).Update("wishlist", text).Error
}
