package services

import (
	"context"
	"testing"

	"github.com/anjiri1684/skill_swap/chain"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSkillValidation(t *testing.T) {
	ctx := context.Background()
	reg := NewSessionRegistry()
	teacher := connectSigner(t, reg, models.RoleTeacher)
	c := NewCatalog()

	cases := map[string]func(*SkillInput){
		"missing name":     func(in *SkillInput) { in.Name = "  " },
		"zero rate":        func(in *SkillInput) { in.Rate = 0 },
		"rate too high":    func(in *SkillInput) { in.Rate = 5000 },
		"unknown category": func(in *SkillInput) { in.Category = "Juggling" },
		"unknown level":    func(in *SkillInput) { in.Level = "Expert" },
		"no slots":         func(in *SkillInput) { in.Availability = nil },
		"blank slot":       func(in *SkillInput) { in.Availability = []models.AvailabilitySlot{{Slot: " "}} },
		"duplicate slot":   func(in *SkillInput) { in.Availability = append(in.Availability, in.Availability[0]) },
		"bad meeting link": func(in *SkillInput) { in.Availability[0].Link = "not a url" },
		"bad receiver":     func(in *SkillInput) { in.Receiver = "XYZ" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := rustSkill(teacher.Address)
			mutate(&in)
			_, err := c.RegisterSkill(ctx, teacher, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Empty(t, c.Skills())

	in := rustSkill(teacher.Address)
	in.Rate = 5000
	_, err := c.RegisterSkill(ctx, teacher, in)
	assert.Equal(t, "Rate must be between 0.1 and 1000.", UserMessage(err))

	_, err = c.RegisterSkill(ctx, nil, rustSkill(teacher.Address))
	assert.ErrorIs(t, err, chain.ErrWalletNotConnected)
}

func TestRegisterSkillAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	teacher := connectSigner(t, NewSessionRegistry(), models.RoleTeacher)
	c := NewCatalog()

	first, err := c.RegisterSkill(ctx, teacher, rustSkill(""))
	require.NoError(t, err)
	second, err := c.RegisterSkill(ctx, teacher, rustSkill(""))
	require.NoError(t, err)

	assert.Less(t, first.ID, second.ID)
	assert.Equal(t, teacher.Address, first.Receiver)
	assert.Equal(t, teacher.Address, first.Teacher)
	assert.Zero(t, first.Rating)
}

func TestListingFeeIsCharged(t *testing.T) {
	payer := &fakePayer{}
	platform := newAddress(t)
	teacher := connectSigner(t, NewSessionRegistry(), models.RoleTeacher)
	c := NewCatalog(WithListingFee(payer, 0.5, platform))

	_, err := c.RegisterSkill(context.Background(), teacher, rustSkill(""))
	require.NoError(t, err)
	require.Equal(t, 1, payer.calls())
	assert.Equal(t, models.PaymentForListing, payer.requests[0].Purpose)
	assert.Equal(t, platform, payer.requests[0].Receiver)

	payer.err = chain.ErrPaymentRejected
	_, err = c.RegisterSkill(context.Background(), teacher, rustSkill(""))
	assert.ErrorIs(t, err, chain.ErrPaymentRejected)
	assert.Len(t, c.Skills(), 1)
}

func TestMeetingLinkOnlyVisibleOnceBooked(t *testing.T) {
	teacher := connectSigner(t, NewSessionRegistry(), models.RoleTeacher)
	c := NewCatalog()
	skill, err := c.RegisterSkill(context.Background(), teacher, rustSkill(""))
	require.NoError(t, err)

	view, err := c.View(skill.ID, "")
	require.NoError(t, err)
	require.Len(t, view.Availability, 1)
	assert.False(t, view.Availability[0].Booked)
	assert.Empty(t, view.Availability[0].Link)

	_, err = c.RecordBooking(models.Booking{SkillID: skill.ID, Slot: "Friday 9 AM", Learner: "LEARNER"})
	require.NoError(t, err)

	view, err = c.View(skill.ID, "LEARNER")
	require.NoError(t, err)
	assert.True(t, view.Availability[0].Booked)
	assert.Equal(t, "https://meet.example.com/L", view.Availability[0].Link)
	assert.True(t, view.Reviewable)

	_, err = c.RecordBooking(models.Booking{SkillID: skill.ID, Slot: "Friday 9 AM", Learner: "OTHER"})
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
}

func TestHoldsKeepSlotForOneFlow(t *testing.T) {
	teacher := connectSigner(t, NewSessionRegistry(), models.RoleTeacher)
	c := NewCatalog()
	skill, err := c.RegisterSkill(context.Background(), teacher, rustSkill(""))
	require.NoError(t, err)

	a, b := uuid.New(), uuid.New()
	require.NoError(t, c.Hold(skill.ID, "Friday 9 AM", a))
	require.NoError(t, c.Hold(skill.ID, "Friday 9 AM", a))
	assert.ErrorIs(t, c.Hold(skill.ID, "Friday 9 AM", b), ErrSubmissionInProgress)

	c.Release(skill.ID, "Friday 9 AM", b)
	assert.ErrorIs(t, c.Hold(skill.ID, "Friday 9 AM", b), ErrSubmissionInProgress)

	c.Release(skill.ID, "Friday 9 AM", a)
	assert.NoError(t, c.Hold(skill.ID, "Friday 9 AM", b))
}

func TestCompleteBooking(t *testing.T) {
	teacher := connectSigner(t, NewSessionRegistry(), models.RoleTeacher)
	c := NewCatalog()
	skill, err := c.RegisterSkill(context.Background(), teacher, rustSkill(""))
	require.NoError(t, err)
	_, err = c.RecordBooking(models.Booking{SkillID: skill.ID, Slot: "Friday 9 AM", Learner: "LEARNER"})
	require.NoError(t, err)

	_, err = c.CompleteBooking(skill.ID, "Friday 9 AM", "SOMEONE")
	assert.ErrorIs(t, err, ErrForbidden)

	b, err := c.CompleteBooking(skill.ID, "Friday 9 AM", "LEARNER")
	require.NoError(t, err)
	assert.True(t, b.Completed)
	assert.NotNil(t, b.CompletedAt)

	_, err = c.CompleteBooking(skill.ID, "Friday 9 AM", "LEARNER")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := c.Skill(skill.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SessionsCompleted)
}

func TestBrowseSortsAndSeeds(t *testing.T) {
	teacher := connectSigner(t, NewSessionRegistry(), models.RoleTeacher)
	c := NewCatalog()
	c.SeedDemo(teacher.Address)
	_, err := c.RegisterSkill(context.Background(), teacher, rustSkill(""))
	require.NoError(t, err)

	views := c.Browse("", nil, "")
	require.Len(t, views, 2)
	assert.Equal(t, "React Development Workshop", views[0].Name)
	assert.Equal(t, 5.0, views[0].Rating)
	assert.Len(t, views[0].RecentReviews, 1)

	views = c.Browse("rust", nil, "")
	require.Len(t, views, 1)
	assert.Equal(t, "Intro to Rust", views[0].Name)
}

func TestMeanRating(t *testing.T) {
	assert.Zero(t, MeanRating(nil))
	fb := []models.Feedback{{Rating: 5}, {Rating: 4}, {Rating: 4}}
	assert.Equal(t, 4.3, MeanRating(fb))
}
