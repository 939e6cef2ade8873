package models

import (
	"time"

	"github.com/mbraga/giftdraw/internal/snowflake"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// An Account is an organizer account. An Account owns zero or more
// Draws. Participants never have accounts; they are reached through
// tokens alone.
type Account struct {
	snowflake.ID      `gorm:"primarykey;autoIncrement:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Name              string `gorm:"size:64;not null"`
	Email             string `gorm:"size:64;not null;uniqueIndex"`
	EncryptedPassword []byte `gorm:"size:60;not null"`
	Draws             []Draw `gorm:"constraint:OnDelete:CASCADE;"`
}

type Accounts struct {
	db *gorm.DB
}

func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{db: db}
}

// Create registers a new organizer account. The email must be unique;
// a duplicate surfaces as gorm.ErrDuplicatedKey.
func (a *Accounts) Create(name, email, password string) (*Account, error) {
	passwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	account := Account{
		ID:                snowflake.Now(),
		Name:              name,
		Email:             email,
		EncryptedPassword: passwd,
	}
	if err := a.db.Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// Find returns the account with the given id.
func (a *Accounts) Find(id snowflake.ID) (*Account, error) {
	var account Account
	if err := a.db.First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// Authenticate returns the account for email if password matches its
// stored bcrypt hash, otherwise bcrypt.ErrMismatchedHashAndPassword or
// gorm.ErrRecordNotFound.
func (a *Accounts) Authenticate(email, password string) (*Account, error) {
	var account Account
	if err := a.db.First(&account, "email = ?", email).Error; err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(account.EncryptedPassword, []byte(password)); err != nil {
		return nil, err
	}
	return &account, nil
}
