package models

import (
	"time"

	"github.com/mbraga/giftdraw/internal/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// A Draw is one Secret Santa exchange: a named event with a roster of
// Participants, owned by an Account. A Draw starts pending and is
// completed exactly once, when the assignment is generated.
type Draw struct {
	snowflake.ID `gorm:"primarykey;autoIncrement:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Name         string       `gorm:"size:128;not null"`
	Date         time.Time    `gorm:"not null"`
	Status       DrawStatus   `gorm:"not null;default:'pending'"`
	AccountID    snowflake.ID `gorm:"not null;index"`
	Account      *Account     `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	Participants []Participant `gorm:"constraint:OnDelete:CASCADE;"`
	AccessTokens []AccessToken `gorm:"constraint:OnDelete:CASCADE;"`
}

type DrawStatus string

const (
	DrawPending   DrawStatus = "pending"
	DrawCompleted DrawStatus = "completed"
)

func (DrawStatus) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql", "postgres":
		return "enum('pending','completed')"
	case "sqlite":
		return "TEXT"
	default:
		return ""
	}
}

// A DrawSummary is the organizer's listing projection of a Draw.
type DrawSummary struct {
	ID           snowflake.ID
	CreatedAt    time.Time
	Name         string
	Date         time.Time
	Status       DrawStatus
	Participants int64
	Assigned     int64
	Identified   int64
}

// DrawStats are the per-account lifecycle counts.
type DrawStats struct {
	Total     int64 `gorm:"column:total"`
	Pending   int64 `gorm:"column:pending"`
	Completed int64 `gorm:"column:completed"`
}

type Draws struct {
	db *gorm.DB
}

func NewDraws(db *gorm.DB) *Draws {
	return &Draws{db: db}
}

// Create stores a new pending draw for the given owner.
func (d *Draws) Create(name string, date time.Time, ownerID snowflake.ID) (*Draw, error) {
	draw := Draw{
		ID:        snowflake.Now(),
		Name:      name,
		Date:      date,
		Status:    DrawPending,
		AccountID: ownerID,
	}
	if err := d.db.Create(&draw).Error; err != nil {
		return nil, err
	}
	return &draw, nil
}

// Find returns the draw with the given id.
func (d *Draws) Find(id snowflake.ID) (*Draw, error) {
	var draw Draw
	if err := d.db.First(&draw, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &draw, nil
}

// FindWithParticipants returns the draw with its roster preloaded.
func (d *Draws) FindWithParticipants(id snowflake.ID) (*Draw, error) {
	var draw Draw
	if err := d.db.Preload("Participants").First(&draw, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &draw, nil
}

// ListByAccount returns the owner's draws, newest first, each with its
// participant, assigned and identified counts.
func (d *Draws) ListByAccount(ownerID snowflake.ID) ([]DrawSummary, error) {
	var summaries []DrawSummary
	err := d.db.Model(&Draw{}).
		Select(`draws.id, draws.created_at, draws.name, draws.date, draws.status,
			(select count(*) from participants p where p.draw_id = draws.id) as participants,
			(select count(*) from participants p where p.draw_id = draws.id and p.assigned_to_id is not null) as assigned,
			(select count(*) from participants p where p.draw_id = draws.id and p.identified) as identified`).
		Where("account_id = ?", ownerID).
		Order("created_at desc").
		Scan(&summaries).Error
	return summaries, err
}

// Stats returns the owner's draw lifecycle counts.
func (d *Draws) Stats(ownerID snowflake.ID) (*DrawStats, error) {
	var stats DrawStats
	err := d.db.Model(&Draw{}).
		Select(`count(*) as total,
			sum(case when status = 'pending' then 1 else 0 end) as pending,
			sum(case when status = 'completed' then 1 else 0 end) as completed`).
		Where("account_id = ?", ownerID).
		Scan(&stats).Error
	return &stats, err
}

// Update overwrites the draw's name and date.
func (d *Draws) Update(id snowflake.ID, name string, date time.Time) error {
	return d.db.Model(&Draw{}).Where("id = ?", id).
		Updates(map[string]any{"name": name, "date": date}).Error
}

// Complete flips the draw from pending to completed. The transition
// happens at most once; Complete reports whether this call won it.
func (d *Draws) Complete(id snowflake.ID) (bool, error) {
	res := d.db.Model(&Draw{}).
		Where("id = ? and status = ?", id, DrawPending).
		Update("status", DrawCompleted)
	return res.RowsAffected > 0, res.Error
}

// Delete removes the draw. Participants and access tokens go with it
// through their foreign key constraints.
func (d *Draws) Delete(id snowflake.ID) error {
	return d.db.Select("Participants", "AccessTokens").Delete(&Draw{ID: id}).Error
}
