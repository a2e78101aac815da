package services

import (
	"context"
	"sync"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/anjiri1684/skill_swap/chain"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/stretchr/testify/require"
)

type fakePayer struct {
	mu       sync.Mutex
	requests []PaymentRequest
	txID     string
	err      error
}

func (p *fakePayer) Pay(_ context.Context, req PaymentRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if p.err != nil {
		return p.txID, p.err
	}
	if p.txID == "" {
		return "TX-OK", nil
	}
	return p.txID, nil
}

func (p *fakePayer) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

type fakeIssuer struct {
	mu      sync.Mutex
	assetID uint64
	calls   int
}

func (i *fakeIssuer) IssueCollectible(_ context.Context, owner string, _ chain.Signer, skillID int64, sessionID *int64) *models.CollectibleRecord {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.calls++
	if i.assetID == 0 {
		return nil
	}
	rec := &models.CollectibleRecord{AssetID: i.assetID, Owner: owner, SkillID: skillID}
	if sessionID != nil {
		rec.SessionID = *sessionID
	}
	return rec
}

func (i *fakeIssuer) CompleteSession(ctx context.Context, address string, sessionID, skillID int64, signer chain.Signer) (string, *models.CollectibleRecord) {
	rec := i.IssueCollectible(ctx, address, signer, skillID, &sessionID)
	if rec == nil {
		return "completed, but NFT creation failed.", nil
	}
	return "completed and NFT awarded", rec
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []models.Notification
}

func (n *recordingNotifier) Notify(address string, kind models.NotificationType, title, message string) models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	note := models.Notification{Recipient: address, Type: kind, Title: title, Message: message}
	n.notes = append(n.notes, note)
	return note
}

func (n *recordingNotifier) kinds(address string) []models.NotificationType {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []models.NotificationType
	for _, note := range n.notes {
		if note.Recipient == address {
			out = append(out, note.Type)
		}
	}
	return out
}

func newAddress(t *testing.T) string {
	t.Helper()
	return crypto.GenerateAccount().Address.String()
}

func connectSigner(t *testing.T, reg *SessionRegistry, role models.Role) *Session {
	t.Helper()
	account := crypto.GenerateAccount()
	phrase, err := mnemonic.FromPrivateKey(account.PrivateKey)
	require.NoError(t, err)
	sess, err := reg.Connect(ProviderMnemonic, Credentials{Mnemonic: phrase}, role)
	require.NoError(t, err)
	return sess
}

func rustSkill(receiver string) SkillInput {
	return SkillInput{
		Name:         "Intro to Rust",
		Description:  "Ownership, borrowing and cargo.",
		Rate:         10,
		Category:     "Programming",
		Level:        "Beginner",
		Receiver:     receiver,
		Availability: []models.AvailabilitySlot{{Slot: "Friday 9 AM", Link: "https://meet.example.com/L"}},
	}
}
