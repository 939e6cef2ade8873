// Package auth implements organizer registration, login and bearer
// token verification. Only organizers authenticate; participants are
// reached exclusively through draw tokens.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mbraga/giftdraw/internal/httpx"
	"github.com/mbraga/giftdraw/internal/snowflake"
	"github.com/mbraga/giftdraw/internal/to"
	"github.com/mbraga/giftdraw/models"
	"gorm.io/gorm"
)

const tokenLifetime = 24 * time.Hour

type Env struct {
	*models.Env
	// Secret signs and verifies session tokens.
	Secret []byte
}

// Register creates a new organizer account and returns it with a
// session token.
func Register(env *Env, w http.ResponseWriter, r *http.Request) error {
	var params struct {
		Name     string `json:"name" schema:"name"`
		Email    string `json:"email" schema:"email"`
		Password string `json:"password" schema:"password"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	switch {
	case params.Name == "", params.Email == "":
		return httpx.Error(http.StatusBadRequest, errors.New("name and email are required"))
	case len(params.Password) < 6:
		return httpx.Error(http.StatusBadRequest, errors.New("password must be at least 6 characters"))
	}

	account, err := models.NewAccounts(env.DB).Create(params.Name, params.Email, params.Password)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return httpx.Error(http.StatusBadRequest, errors.New("email already registered"))
		}
		return err
	}

	token, err := env.mintToken(account)
	if err != nil {
		return err
	}
	w.WriteHeader(http.StatusCreated)
	return to.JSON(w, serialize(account, token))
}

// Login authenticates an organizer by email and password and returns
// a session token.
func Login(env *Env, w http.ResponseWriter, r *http.Request) error {
	var params struct {
		Email    string `json:"email" schema:"email"`
		Password string `json:"password" schema:"password"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}

	account, err := models.NewAccounts(env.DB).Authenticate(params.Email, params.Password)
	if err != nil {
		// one answer for a missing account and a wrong password
		return httpx.Error(http.StatusUnauthorized, errors.New("invalid email or password"))
	}

	token, err := env.mintToken(account)
	if err != nil {
		return err
	}
	return to.JSON(w, serialize(account, token))
}

// Authenticate resolves the bearer token of an organizer request to
// its account.
func (e *Env) Authenticate(r *http.Request) (*models.Account, error) {
	bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if bearer == "" {
		return nil, httpx.Error(http.StatusUnauthorized, errors.New("authorization required"))
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(bearer, &claims, func(*jwt.Token) (interface{}, error) {
		return e.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, httpx.Error(http.StatusUnauthorized, fmt.Errorf("invalid session token: %w", err))
	}

	id, err := snowflake.Parse(claims.Subject)
	if err != nil {
		return nil, httpx.Error(http.StatusUnauthorized, errors.New("invalid session token"))
	}
	account, err := models.NewAccounts(e.DB).Find(id)
	if err != nil {
		return nil, httpx.Error(http.StatusUnauthorized, errors.New("invalid session token"))
	}
	return account, nil
}

func (e *Env) mintToken(account *models.Account) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   account.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(e.Secret)
}

func serialize(account *models.Account, token string) map[string]any {
	return map[string]any{
		"account": map[string]any{
			"id":    account.ID.String(),
			"name":  account.Name,
			"email": account.Email,
		},
		"token": token,
	}
}
