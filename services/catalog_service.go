package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/skill_swap/chain"
	config "github.com/anjiri1684/skill_swap/configs"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const recentReviewCount = 2

// listingPayer charges the optional listing fee.
type listingPayer interface {
	Pay(ctx context.Context, req PaymentRequest) (string, error)
}

type SkillInput struct {
	Name         string                    `json:"name"`
	Description  string                    `json:"description"`
	Rate         float64                   `json:"rate"`
	Category     string                    `json:"category"`
	Level        string                    `json:"level"`
	Receiver     string                    `json:"receiver"`
	Availability []models.AvailabilitySlot `json:"availability"`
}

type slotKey struct {
	skillID int64
	slot    string
}

// Catalog holds the skills on offer together with the booked-slots record.
type Catalog struct {
	mu sync.RWMutex

	skills         []*models.Skill
	byID           map[int64]*models.Skill
	nextSkillID    int64
	nextFeedbackID int64

	bookings      []*models.Booking
	booked        map[slotKey]*models.Booking
	nextBookingID int64
	holds         map[slotKey]uuid.UUID

	payer       listingPayer
	listingFee  float64
	feeReceiver string

	log zerolog.Logger
}

type CatalogOption func(*Catalog)

// WithListingFee charges fee Algos to receiver for every registered skill.
func WithListingFee(payer listingPayer, fee float64, receiver string) CatalogOption {
	return func(c *Catalog) {
		c.payer = payer
		c.listingFee = fee
		c.feeReceiver = receiver
	}
}

func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		byID:   make(map[int64]*models.Skill),
		booked: make(map[slotKey]*models.Booking),
		holds:  make(map[slotKey]uuid.UUID),
		log:    log.With().Str("component", "catalog").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Catalog) RegisterSkill(ctx context.Context, sess *Session, in SkillInput) (*models.Skill, error) {
	if sess == nil || sess.Address == "" {
		return nil, chain.ErrWalletNotConnected
	}

	skill, err := c.validateSkill(sess, in)
	if err != nil {
		return nil, err
	}

	if c.listingFee > 0 && c.payer != nil {
		txID, err := c.payer.Pay(ctx, PaymentRequest{
			Session:  sess,
			Receiver: c.feeReceiver,
			Amount:   c.listingFee,
			Purpose:  models.PaymentForListing,
		})
		if err != nil {
			return nil, fmt.Errorf("listing fee: %w", err)
		}
		c.log.Info().Str("tx_id", txID).Str("teacher", sess.Address).Msg("listing fee paid")
	}

	c.mu.Lock()
	c.nextSkillID++
	skill.ID = c.nextSkillID
	c.skills = append(c.skills, skill)
	c.byID[skill.ID] = skill
	out := copySkill(skill)
	c.mu.Unlock()

	c.log.Info().Int64("skill_id", skill.ID).Str("name", skill.Name).Str("teacher", skill.Teacher).Msg("skill registered")
	return &out, nil
}

func (c *Catalog) validateSkill(sess *Session, in SkillInput) (*models.Skill, error) {
	name := utils.SanitizeInput(in.Name)
	description := utils.SanitizeInput(in.Description)
	category := strings.TrimSpace(in.Category)
	if name == "" || description == "" || category == "" {
		return nil, invalid("", config.MsgRequiredFields)
	}
	if in.Rate <= 0 || math.IsNaN(in.Rate) {
		return nil, invalid("rate", config.MsgInvalidRate)
	}
	if !utils.ValidateSkillRate(in.Rate) {
		return nil, invalid("rate", fmt.Sprintf("Rate must be between %g and %g.", config.MinSkillRate, config.MaxSkillRate))
	}
	if !config.IsSkillCategory(category) {
		return nil, invalid("category", fmt.Sprintf("Unknown category %q.", category))
	}
	level := strings.TrimSpace(in.Level)
	if level == "" {
		level = config.SkillLevels[0]
	}
	if !config.IsSkillLevel(level) {
		return nil, invalid("level", fmt.Sprintf("Unknown level %q.", level))
	}
	if len(in.Availability) == 0 {
		return nil, invalid("availability", config.MsgMinOneSlot)
	}

	seen := make(map[string]bool, len(in.Availability))
	slots := make([]models.AvailabilitySlot, 0, len(in.Availability))
	for _, a := range in.Availability {
		label := strings.TrimSpace(a.Slot)
		if label == "" {
			return nil, invalid("availability", config.MsgInvalidSlot)
		}
		if seen[label] {
			return nil, invalid("availability", fmt.Sprintf("Slot %q is listed twice.", label))
		}
		link := strings.TrimSpace(a.Link)
		if link != "" && !utils.ValidateURL(link) {
			return nil, invalid("availability", fmt.Sprintf("Meeting link for %q is not a valid URL.", label))
		}
		seen[label] = true
		slots = append(slots, models.AvailabilitySlot{Slot: label, Link: link})
	}

	receiver := strings.TrimSpace(in.Receiver)
	if receiver == "" {
		receiver = sess.Address
	}
	if !chain.ValidateAddress(receiver) {
		return nil, invalid("receiver", config.MsgInvalidAddress)
	}

	return &models.Skill{
		Name:         name,
		Description:  description,
		Teacher:      sess.Address,
		Receiver:     receiver,
		Rate:         in.Rate,
		Category:     category,
		Level:        level,
		Availability: slots,
		Feedbacks:    []models.Feedback{},
		CreatedAt:    time.Now(),
	}, nil
}

// Skills returns a snapshot of all skills in registration order.
func (c *Catalog) Skills() []models.Skill {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Skill, 0, len(c.skills))
	for _, s := range c.skills {
		out = append(out, copySkill(s))
	}
	return out
}

func (c *Catalog) Skill(id int64) (models.Skill, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.byID[id]
	if !ok {
		return models.Skill{}, fmt.Errorf("skill %d: %w", id, ErrNotFound)
	}
	return copySkill(s), nil
}

// Browse filters and sorts the catalog for viewer.
func (c *Catalog) Browse(query string, filters *models.SkillFilters, viewer string) []models.SkillView {
	skills := SearchSkills(c.Skills(), query, filters)
	SortSkills(skills)

	c.mu.RLock()
	defer c.mu.RUnlock()
	views := make([]models.SkillView, 0, len(skills))
	for _, s := range skills {
		views = append(views, c.viewLocked(s, viewer))
	}
	return views
}

func (c *Catalog) View(id int64, viewer string) (models.SkillView, error) {
	skill, err := c.Skill(id)
	if err != nil {
		return models.SkillView{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viewLocked(skill, viewer), nil
}

// viewLocked redacts meeting links of slots that have not been booked.
func (c *Catalog) viewLocked(s models.Skill, viewer string) models.SkillView {
	slots := make([]models.SlotView, 0, len(s.Availability))
	for _, a := range s.Availability {
		v := models.SlotView{Slot: a.Slot}
		if _, ok := c.booked[slotKey{s.ID, a.Slot}]; ok {
			v.Booked = true
			v.Link = a.Link
		}
		slots = append(slots, v)
	}

	reviewable := false
	if viewer != "" {
		for _, b := range c.bookings {
			if b.SkillID == s.ID && b.Learner == viewer {
				reviewable = true
				break
			}
		}
	}

	return models.SkillView{
		ID:                s.ID,
		Name:              s.Name,
		Description:       s.Description,
		Teacher:           s.Teacher,
		Receiver:          s.Receiver,
		Rate:              s.Rate,
		Category:          s.Category,
		Level:             s.Level,
		SessionsCompleted: s.SessionsCompleted,
		Rating:            s.Rating,
		ReviewCount:       len(s.Feedbacks),
		Availability:      slots,
		RecentReviews:     recentFeedback(s.Feedbacks),
		Reviewable:        reviewable,
	}
}

func (c *Catalog) IsBooked(skillID int64, slot string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.booked[slotKey{skillID, slot}]
	return ok
}

// Hold reserves an unbooked slot for one booking flow until the booking is
// recorded or the hold is released.
func (c *Catalog) Hold(skillID int64, slot string, flowID uuid.UUID) error {
	key := slotKey{skillID, slot}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.booked[key]; ok {
		return ErrSlotAlreadyBooked
	}
	if holder, ok := c.holds[key]; ok && holder != flowID {
		return ErrSubmissionInProgress
	}
	c.holds[key] = flowID
	return nil
}

func (c *Catalog) Release(skillID int64, slot string, flowID uuid.UUID) {
	key := slotKey{skillID, slot}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.holds[key] == flowID {
		delete(c.holds, key)
	}
}

// RecordBooking adds b to the booked-slots record. Bookings are never removed.
func (c *Catalog) RecordBooking(b models.Booking) (models.Booking, error) {
	key := slotKey{b.SkillID, b.Slot}

	c.mu.Lock()
	defer c.mu.Unlock()
	skill, ok := c.byID[b.SkillID]
	if !ok {
		return models.Booking{}, fmt.Errorf("skill %d: %w", b.SkillID, ErrNotFound)
	}
	if _, ok := c.booked[key]; ok {
		return models.Booking{}, ErrSlotAlreadyBooked
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	c.nextBookingID++
	b.ID = c.nextBookingID
	b.SkillName = skill.Name
	b.Teacher = skill.Teacher
	rec := b
	c.bookings = append(c.bookings, &rec)
	c.booked[key] = &rec
	delete(c.holds, key)

	c.log.Info().Int64("skill_id", b.SkillID).Str("slot", b.Slot).Str("learner", b.Learner).Msg("booking recorded")
	return rec, nil
}

// Bookings returns every booking where address is the learner or the teacher,
// oldest first. An empty address returns all bookings.
func (c *Catalog) Bookings(address string) []models.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Booking, 0)
	for _, b := range c.bookings {
		if address == "" || b.Learner == address || b.Teacher == address {
			out = append(out, *b)
		}
	}
	return out
}

// CompleteBooking marks a booked slot as attended. Only the learner who
// booked it may complete it, and only once.
func (c *Catalog) CompleteBooking(skillID int64, slot, learner string) (models.Booking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	skill, ok := c.byID[skillID]
	if !ok {
		return models.Booking{}, fmt.Errorf("skill %d: %w", skillID, ErrNotFound)
	}
	b, ok := c.booked[slotKey{skillID, slot}]
	if !ok {
		return models.Booking{}, fmt.Errorf("booking %q: %w", slot, ErrNotFound)
	}
	if b.Learner != learner {
		return models.Booking{}, ErrForbidden
	}
	if b.Completed {
		return models.Booking{}, fmt.Errorf("booking already completed: %w", ErrInvalidTransition)
	}
	now := time.Now()
	b.Completed = true
	b.CompletedAt = &now
	skill.SessionsCompleted++
	return *b, nil
}

// SetBookingCollectible attaches the completion collectible to a booking.
func (c *Catalog) SetBookingCollectible(skillID int64, slot string, assetID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.booked[slotKey{skillID, slot}]; ok {
		id := assetID
		b.CollectibleID = &id
	}
}

// AppendFeedback adds fb to the skill and recomputes its rating.
func (c *Catalog) AppendFeedback(skillID int64, fb models.Feedback) (models.Skill, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.byID[skillID]
	if !ok {
		return models.Skill{}, fmt.Errorf("skill %d: %w", skillID, ErrNotFound)
	}
	c.nextFeedbackID++
	fb.ID = c.nextFeedbackID
	s.Feedbacks = append(s.Feedbacks, fb)
	s.Rating = MeanRating(s.Feedbacks)
	return copySkill(s), nil
}

// SeedDemo adds the demo workshop taught from the platform wallet.
func (c *Catalog) SeedDemo(teacher string) {
	skill := &models.Skill{
		Name:              "React Development Workshop",
		Description:       "Learn React with hooks and modern practices.",
		Teacher:           teacher,
		Receiver:          teacher,
		Rate:              25,
		Category:          "Programming",
		Level:             "Intermediate",
		SessionsCompleted: 12,
		Availability: []models.AvailabilitySlot{
			{Slot: "Monday 10 AM", Link: "https://meet.google.com/abc-defg-hij"},
			{Slot: "Wednesday 2 PM", Link: "https://meet.google.com/klm-nopq-rst"},
		},
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.nextSkillID++
	skill.ID = c.nextSkillID
	c.nextFeedbackID++
	skill.Feedbacks = []models.Feedback{{
		ID:        c.nextFeedbackID,
		Student:   "BOB123...",
		Rating:    5,
		Comment:   "Excellent session!",
		Date:      "2024-01-10",
		CreatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}}
	skill.Rating = MeanRating(skill.Feedbacks)
	c.skills = append(c.skills, skill)
	c.byID[skill.ID] = skill
	c.mu.Unlock()

	c.log.Info().Int64("skill_id", skill.ID).Msg("demo skill seeded")
}

// MeanRating is the mean of the feedback ratings rounded to one decimal, or 0.
func MeanRating(feedbacks []models.Feedback) float64 {
	if len(feedbacks) == 0 {
		return 0
	}
	total := 0
	for _, f := range feedbacks {
		total += f.Rating
	}
	return math.Round(float64(total)/float64(len(feedbacks))*10) / 10
}

func recentFeedback(feedbacks []models.Feedback) []models.Feedback {
	start := len(feedbacks) - recentReviewCount
	if start < 0 {
		start = 0
	}
	return append([]models.Feedback{}, feedbacks[start:]...)
}

func copySkill(s *models.Skill) models.Skill {
	out := *s
	out.Availability = append([]models.AvailabilitySlot{}, s.Availability...)
	out.Feedbacks = append([]models.Feedback{}, s.Feedbacks...)
	return out
}
