package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arkanalabs/tarot-api/internal/dto"
	"github.com/arkanalabs/tarot-api/internal/models"
	"gorm.io/gorm"
)

// FallbackText is returned whenever the generation delegate fails. The
// caller always gets usable text; the failure is logged, never surfaced.
const FallbackText = "Entschuldigung, bei der Generierung der Antwort ist ein Fehler aufgetreten."

var ErrTooFewCards = errors.New("mindestens drei Karten werden für eine Interpretation benötigt")

// ReadingService orchestrates card interpretation: prompt building,
// delegation to the text generator, and persistence of drawn cards.
type ReadingService struct {
	db  *gorm.DB
	gen TextGenerator
}

func NewReadingService(db *gorm.DB, gen TextGenerator) *ReadingService {
	return &ReadingService{db: db, gen: gen}
}

// InterpretCard builds the single-card prompt, optionally enriched with
// the user's goals, and returns generated text or the fallback string.
func (s *ReadingService) InterpretCard(ctx context.Context, cardName, userGoals string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Du legst Tarot Karten für Menschen. Erkläre und deute prägnant die soeben gelegte Karte %q ohne Sonderzeichen. ", cardName)
	if userGoals != "" {
		fmt.Fprintf(&b, "Berücksichtige bei der Deutung folgende Ziele des Users: %s. ", userGoals)
	}
	b.WriteString("Deute die Karte im Kontext der aktuellen Situation.")

	text, err := s.gen.Generate(ctx, b.String())
	if err != nil {
		slog.Error("card interpretation failed", "action", "interpret_card", "card", cardName, "error", err)
		return FallbackText
	}
	return text
}

// InterpretSet maps the first three card names onto the fixed narrative
// roles (present, conflict, resolution) and requests one coherent reading.
func (s *ReadingService) InterpretSet(ctx context.Context, cardNames []string, personalContext string) (string, error) {
	if len(cardNames) < 3 {
		return "", ErrTooFewCards
	}

	var b strings.Builder
	b.WriteString("Du bist ein erfahrener Tarot-Kartenleser. ")
	if personalContext != "" {
		fmt.Fprintf(&b, "Hier sind Informationen über die Person, für die du liest: %s", personalContext)
	}
	fmt.Fprintf(&b, "Gib eine zusammenhängende, persönliche Interpretation der folgenden drei Tarotkarten: "+
		"%s repräsentiert die jetzige persönliche Lage (Gegenwart), "+
		"%s ein mögliches Problem (Konflikt) und "+
		"%s ein Lösungsansatz oder Weisung (Perspektive). "+
		"Die Interpretation soll motivierend und aufschlussreich sein.",
		cardNames[0], cardNames[1], cardNames[2])

	text, err := s.gen.Generate(ctx, b.String())
	if err != nil {
		slog.Error("card set interpretation failed", "action", "interpret_set", "cards", strings.Join(cardNames[:3], ","), "error", err)
		return FallbackText, nil
	}
	return text, nil
}

// BuildPersonalContext reads the user's profile and concatenates present
// fields into the natural-language paragraph the prompts consume, plus
// flags reporting which fields contributed.
func (s *ReadingService) BuildPersonalContext(userID uint) (string, dto.ProfileInfo) {
	var info dto.ProfileInfo

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("failed to fetch user for personal context", "action", "build_context", "user_id", userID, "error", err)
		}
		return "", info
	}

	var b strings.Builder
	if user.Goals != "" {
		fmt.Fprintf(&b, "Ziele der Person: %s. ", user.Goals)
		info.Goals = true
	}
	if user.Gender != "" {
		fmt.Fprintf(&b, "Geschlecht: %s. ", genderText(user.Gender))
		info.Gender = true
	}
	if user.ZodiacSign != "" {
		fmt.Fprintf(&b, "Sternzeichen: %s. ", user.ZodiacSign)
		info.Zodiac = true
	}
	if user.Birthday != nil {
		fmt.Fprintf(&b, "Alter: %d Jahre. ", ageAt(*user.Birthday, time.Now()))
		info.Age = true
	}

	return b.String(), info
}

func genderText(g string) string {
	switch g {
	case "m":
		return "männlich"
	case "w":
		return "weiblich"
	default:
		return "divers"
	}
}

// ageAt computes full years between birthday and now, calendar-aware.
func ageAt(birthday, now time.Time) int {
	age := now.Year() - birthday.Year()
	if now.Month() < birthday.Month() ||
		(now.Month() == birthday.Month() && now.Day() < birthday.Day()) {
		age--
	}
	return age
}

// SaveCard persists one drawn card. A missing session id is generated so
// ungrouped draws still form a reading of their own.
func (s *ReadingService) SaveCard(userID *uint, name, description string, position *int, sessionID string) (*models.DrawnCard, error) {
	if sessionID == "" {
		sessionID = fmt.Sprintf("session_%d", time.Now().UnixMilli())
	}

	card := models.DrawnCard{
		Name:        name,
		Description: description,
		UserID:      userID,
		Position:    position,
		SessionID:   sessionID,
		CreatedAt:   time.Now(),
	}
	if err := s.db.Create(&card).Error; err != nil {
		return nil, fmt.Errorf("failed to save drawn card: %w", err)
	}
	return &card, nil
}

// SaveReadingSummary stores a synthesized summary as the sentinel card of
// its session.
func (s *ReadingService) SaveReadingSummary(userID *uint, sessionID, summary string) (*models.DrawnCard, error) {
	position := models.SummaryPosition
	return s.SaveCard(userID, models.SummaryCardName, summary, &position, sessionID)
}
