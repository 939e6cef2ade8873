package models

import (
	"time"

	"github.com/mbraga/giftdraw/internal/snowflake"
	"github.com/mbraga/giftdraw/internal/tokens"
	"gorm.io/gorm"
)

// An AccessToken is the one-time credential that lets anonymous
// visitors enter a draw's identification flow. At most one live
// (unconsumed) token exists per draw; once consumed a token is inert
// forever.
type AccessToken struct {
	snowflake.ID `gorm:"primarykey;autoIncrement:false"`
	CreatedAt    time.Time
	Token        string       `gorm:"size:32;uniqueIndex;not null"`
	DrawID       snowflake.ID `gorm:"not null;index"`
	Draw         *Draw        `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	Consumed     bool         `gorm:"not null;default:false"`
}

type AccessTokens struct {
	db *gorm.DB
}

func NewAccessTokens(db *gorm.DB) *AccessTokens {
	return &AccessTokens{db: db}
}

// Issue mints and stores a fresh live token for the draw. Issue does
// not retire a prior live token; callers that need the one-live-token
// invariant call ConsumeForDraw first.
func (a *AccessTokens) Issue(drawID snowflake.ID) (*AccessToken, error) {
	token := AccessToken{
		ID:     snowflake.Now(),
		Token:  tokens.New(),
		DrawID: drawID,
	}
	if err := a.db.Create(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// Validate returns the token record only if it exists and has not
// been consumed. A consumed token is indistinguishable from one that
// never existed.
func (a *AccessTokens) Validate(token string) (*AccessToken, error) {
	var at AccessToken
	if err := a.db.First(&at, "token = ? and not consumed", token).Error; err != nil {
		return nil, err
	}
	return &at, nil
}

// Consume marks the token consumed. Consuming an already consumed
// token is a no-op.
func (a *AccessTokens) Consume(id snowflake.ID) error {
	return a.db.Model(&AccessToken{}).
		Where("id = ? and not consumed", id).
		Update("consumed", true).Error
}

// ConsumeForDraw retires every live token the draw still has.
func (a *AccessTokens) ConsumeForDraw(drawID snowflake.ID) error {
	return a.db.Model(&AccessToken{}).
		Where("draw_id = ? and not consumed", drawID).
		Update("consumed", true).Error
}
