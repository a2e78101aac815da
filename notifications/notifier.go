package notifications

import (
	"sort"
	"sync"
	"time"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const inboxSize = 100

// Pusher delivers a notification to live connections of an address.
type Pusher interface {
	Push(address string, payload interface{})
}

// Notifier keeps a bounded inbox per address and forwards every
// notification to the pusher.
type Notifier struct {
	mu      sync.RWMutex
	inboxes map[string][]models.Notification
	pusher  Pusher
	log     zerolog.Logger
}

func NewNotifier(pusher Pusher) *Notifier {
	return &Notifier{
		inboxes: make(map[string][]models.Notification),
		pusher:  pusher,
		log:     log.With().Str("component", "notifier").Logger(),
	}
}

func (n *Notifier) Notify(address string, kind models.NotificationType, title, message string) models.Notification {
	note := models.Notification{
		ID:        uuid.New(),
		Recipient: address,
		Type:      kind,
		Title:     title,
		Message:   message,
		Timestamp: time.Now(),
	}
	if address == "" {
		n.log.Debug().Str("title", title).Msg("notification without recipient dropped")
		return note
	}

	n.mu.Lock()
	inbox := append(n.inboxes[address], note)
	if len(inbox) > inboxSize {
		inbox = append([]models.Notification{}, inbox[len(inbox)-inboxSize:]...)
	}
	n.inboxes[address] = inbox
	n.mu.Unlock()

	n.log.Info().Str("recipient", address).Str("type", string(kind)).Str("title", title).Msg(message)
	if n.pusher != nil {
		n.pusher.Push(address, note)
	}
	return note
}

// Inbox returns the notifications of address, newest first.
func (n *Notifier) Inbox(address string) []models.Notification {
	n.mu.RLock()
	out := append([]models.Notification{}, n.inboxes[address]...)
	n.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

func (n *Notifier) MarkRead(address string, id uuid.UUID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	inbox := n.inboxes[address]
	for i := range inbox {
		if inbox[i].ID == id {
			inbox[i].Read = true
			return true
		}
	}
	return false
}

func (n *Notifier) Clear(address string) {
	n.mu.Lock()
	delete(n.inboxes, address)
	n.mu.Unlock()
}
