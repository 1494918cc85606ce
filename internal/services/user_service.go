package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/arkanalabs/tarot-api/internal/auth"
	"github.com/arkanalabs/tarot-api/internal/dto"
	"github.com/arkanalabs/tarot-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUserNotFound = errors.New("user not found")

// DefaultUsername is used when a first login carries no name at all.
const DefaultUsername = "New User"

// UserService is the persistent directory of user records, keyed by
// stable auth id.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// FindByAuthID does an exact-match lookup on the stable auth id.
// Returns ErrUserNotFound when no row matches.
func (s *UserService) FindByAuthID(authID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("auth_id = ?", authID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByID looks up a user by primary key. Used by the auth gate's
// existence re-check and by profile retrieval.
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ReconcileLogin collapses create and update into one idempotent call.
//
// An existing user is merged with the incoming profile fields: each field
// is replaced only if the incoming value is non-empty, and the updated row
// is read back rather than assumed. A missing user is inserted with
// defaults. The whole sequence runs in a transaction and the insert uses
// ON CONFLICT DO NOTHING, so two concurrent first logins for the same
// auth id both resolve to the single surviving row.
func (s *UserService) ReconcileLogin(identity *auth.Identity, provider string) (*models.User, bool, error) {
	var user models.User
	created := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("auth_id = ?", identity.AuthID).First(&user).Error
		if err == nil {
			return s.mergeProfile(tx, &user, identity)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		username := identity.Username
		if username == "" {
			username = DefaultUsername
		}
		fresh := models.User{
			AuthID:       identity.AuthID,
			Username:     username,
			Name:         identity.Username,
			Email:        identity.Email,
			Picture:      identity.Picture,
			AuthProvider: provider,
			Goals:        "",
		}

		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "auth_id"}},
			DoNothing: true,
		}).Create(&fresh)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost the race against a concurrent first login; the row exists now.
			return tx.Where("auth_id = ?", identity.AuthID).First(&user).Error
		}

		user = fresh
		created = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to reconcile login: %w", err)
	}

	return &user, created, nil
}

func (s *UserService) mergeProfile(tx *gorm.DB, user *models.User, identity *auth.Identity) error {
	if identity.Username == "" && identity.Email == "" && identity.Picture == "" {
		return nil
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if identity.Username != "" {
		updates["username"] = identity.Username
		updates["name"] = identity.Username
	}
	if identity.Email != "" {
		updates["email"] = identity.Email
	}
	if identity.Picture != "" {
		updates["picture"] = identity.Picture
	}

	if err := tx.Model(user).Updates(updates).Error; err != nil {
		return err
	}

	// Read-after-write, not assumed-consistent from the update call.
	return tx.First(user, "id = ?", user.ID).Error
}

// CreateUser inserts a user row directly, without login reconciliation.
func (s *UserService) CreateUser(username, provider, authID, goals string) (*models.User, error) {
	user := models.User{
		AuthID:       authID,
		Username:     username,
		AuthProvider: provider,
		Goals:        goals,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies a partial profile update keyed by auth id. Goals
// always overwrite; the optional fields overwrite only when provided, so
// an omitted field never clears an existing value.
func (s *UserService) UpdateProfile(authID, goals string, gender, zodiacSign *string, birthday *time.Time) (*models.User, error) {
	var user models.User
	if err := s.db.Where("auth_id = ?", authID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"goals":      goals,
		"updated_at": time.Now(),
	}
	if gender != nil {
		updates["gender"] = *gender
	}
	if zodiacSign != nil {
		updates["zodiac_sign"] = *zodiacSign
	}
	if birthday != nil {
		updates["birthday"] = *birthday
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := s.db.First(&user, "id = ?", user.ID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CardsGroupedBySession returns a user's drawn cards newest-first, plus
// the same cards regrouped into readings by session id.
func (s *UserService) CardsGroupedBySession(userID uint) (*dto.UserCardsResponse, error) {
	var cards []models.DrawnCard
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&cards).Error; err != nil {
		return nil, err
	}

	index := make(map[string]int)
	readings := make([]dto.Reading, 0)
	for _, card := range cards {
		i, ok := index[card.SessionID]
		if !ok {
			i = len(readings)
			index[card.SessionID] = i
			readings = append(readings, dto.Reading{Date: card.CreatedAt})
		}
		readings[i].Cards = append(readings[i].Cards, card)
	}

	return &dto.UserCardsResponse{Cards: cards, Readings: readings}, nil
}
