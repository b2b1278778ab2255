package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fdtraverso/mercadito/internal/models"
)

const CookieName = "session"

var ErrNoSession = errors.New("no session")

// Store persists sessions in the relational store, keyed by an opaque
// token that is the only thing the cookie carries.
type Store struct {
	DB  *gorm.DB
	TTL time.Duration
}

func NewStore(db *gorm.DB, ttl time.Duration) *Store {
	return &Store{DB: db, TTL: ttl}
}

func (s *Store) Create(ctx context.Context) (*models.Session, error) {
	sess := models.Session{
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.TTL).Unix(),
	}
	if err := s.DB.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &sess, nil
}

func (s *Store) Get(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	var sess models.Session
	if err := s.DB.WithContext(ctx).Where("token = ?", token).First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if sess.Revoked || time.Now().Unix() > sess.ExpiresAt {
		return nil, ErrNoSession
	}
	return &sess, nil
}

func (s *Store) SetState(ctx context.Context, sess *models.Session, state string) error {
	sess.OAuthState = state
	return s.DB.WithContext(ctx).Model(sess).Update("o_auth_state", state).Error
}

// Login binds the account to the session and rotates the token so a
// pre-login cookie value cannot be replayed as a logged-in one.
func (s *Store) Login(ctx context.Context, sess *models.Session, userID uint) error {
	sess.Token = uuid.NewString()
	sess.UserID = userID
	sess.OAuthState = ""
	sess.ExpiresAt = time.Now().Add(s.TTL).Unix()

	return s.DB.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", sess.ID).
		Updates(map[string]any{
			"token":        sess.Token,
			"user_id":      sess.UserID,
			"o_auth_state": "",
			"expires_at":   sess.ExpiresAt,
		}).Error
}

func (s *Store) Revoke(ctx context.Context, token string) error {
	return s.DB.WithContext(ctx).Model(&models.Session{}).
		Where("token = ?", token).
		Update("revoked", true).Error
}

func (s *Store) Cookie(sess *models.Session) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  time.Unix(sess.ExpiresAt, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func DeleteCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
