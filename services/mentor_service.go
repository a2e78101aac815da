package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/skill_swap/chain"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/utils"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

type welcomeMailer interface {
	SendMentorWelcome(ctx context.Context, name, email string, expertise []string, wallet string)
}

type MentorDirectory struct {
	mu      sync.RWMutex
	mentors []models.Mentor
	nextID  int64
	mailer  welcomeMailer
}

func NewMentorDirectory(mailer welcomeMailer) *MentorDirectory {
	return &MentorDirectory{mailer: mailer}
}

func (d *MentorDirectory) Register(m models.Mentor) (models.Mentor, error) {
	m.Name = utils.SanitizeInput(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Bio = utils.SanitizeInput(m.Bio)
	m.WalletAddress = strings.TrimSpace(m.WalletAddress)
	if err := validate.Struct(m); err != nil {
		return models.Mentor{}, invalid("mentor", err.Error())
	}
	if !chain.ValidateAddress(m.WalletAddress) {
		return models.Mentor{}, invalid("wallet_address", "Invalid wallet address.")
	}

	d.mu.Lock()
	d.nextID++
	m.ID = d.nextID
	m.CreatedAt = time.Now()
	m.Expertise = append([]string{}, m.Expertise...)
	d.mentors = append(d.mentors, m)
	d.mu.Unlock()

	log.Info().Int64("mentor_id", m.ID).Str("name", m.Name).Msg("mentor registered")
	if d.mailer != nil {
		go d.mailer.SendMentorWelcome(context.Background(), m.Name, m.Email, m.Expertise, m.WalletAddress)
	}
	return m, nil
}

func (d *MentorDirectory) Search(query string) []models.Mentor {
	d.mu.RLock()
	all := append([]models.Mentor{}, d.mentors...)
	d.mu.RUnlock()
	return SearchMentors(all, query)
}
