package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/skill_swap/chain"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Signing providers a wallet session can be opened with.
const (
	ProviderMnemonic = "mnemonic"
	ProviderWatch    = "watch"
)

type Provider struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CanSign     bool   `json:"can_sign"`
	Description string `json:"description"`
}

var Providers = []Provider{
	{ID: ProviderMnemonic, Name: "Mnemonic", CanSign: true, Description: "25-word Algorand account mnemonic, signs on the server"},
	{ID: ProviderWatch, Name: "Watch only", CanSign: false, Description: "Address only, browsing without payments"},
}

type Credentials struct {
	Mnemonic string
	Address  string
}

// Session is the identity of one connected wallet. It lives from Connect to
// Disconnect and is never persisted.
type Session struct {
	ID        uuid.UUID
	Address   string
	Role      models.Role
	Provider  string
	TokenID   uint64
	CreatedAt time.Time

	signer chain.Signer
}

// Signer is nil for watch-only sessions.
func (s *Session) Signer() chain.Signer {
	if s == nil {
		return nil
	}
	return s.signer
}

func (s *Session) CanSign() bool {
	return s.Signer() != nil
}

type SessionRegistry struct {
	mu           sync.RWMutex
	sessions     map[uuid.UUID]*Session
	onDisconnect []func(*Session)
	log          zerolog.Logger
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[uuid.UUID]*Session),
		log:      log.With().Str("component", "sessions").Logger(),
	}
}

// OnDisconnect registers cleanup that runs after a session is removed.
func (r *SessionRegistry) OnDisconnect(fn func(*Session)) {
	r.mu.Lock()
	r.onDisconnect = append(r.onDisconnect, fn)
	r.mu.Unlock()
}

func (r *SessionRegistry) Connect(provider string, creds Credentials, role models.Role) (*Session, error) {
	if role != "" && !role.Valid() {
		return nil, invalid("role", "Role must be teacher or learner.")
	}

	var (
		address string
		signer  chain.Signer
	)
	switch provider {
	case ProviderMnemonic:
		s, err := chain.NewMnemonicSigner(creds.Mnemonic)
		if err != nil {
			return nil, invalid("mnemonic", "Invalid wallet mnemonic.")
		}
		address, signer = s.Address(), s
	case ProviderWatch:
		address = strings.TrimSpace(creds.Address)
	default:
		return nil, invalid("provider", fmt.Sprintf("Unknown wallet provider %q.", provider))
	}

	tokenID, err := chain.SkillTokenID(address)
	if err != nil {
		return nil, invalid("address", "Invalid wallet address.")
	}

	sess := &Session{
		ID:        uuid.New(),
		Address:   address,
		Role:      role,
		Provider:  provider,
		TokenID:   tokenID,
		CreatedAt: time.Now(),
		signer:    signer,
	}

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()

	r.log.Info().Str("session_id", sess.ID.String()).Str("address", address).Str("provider", provider).Msg("wallet connected")
	return sess, nil
}

func (r *SessionRegistry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *SessionRegistry) SetRole(id uuid.UUID, role models.Role) (*Session, error) {
	if !role.Valid() {
		return nil, invalid("role", "Role must be teacher or learner.")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated := *s
	updated.Role = role
	r.sessions[id] = &updated
	return &updated, nil
}

func (r *SessionRegistry) Disconnect(id uuid.UUID) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	hooks := append([]func(*Session){}, r.onDisconnect...)
	r.mu.Unlock()

	if !ok {
		return false
	}
	for _, fn := range hooks {
		fn(s)
	}
	r.log.Info().Str("session_id", id.String()).Str("address", s.Address).Msg("wallet disconnected")
	return true
}
