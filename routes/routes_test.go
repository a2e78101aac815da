package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/anjiri1684/skill_swap/chain"
	config "github.com/anjiri1684/skill_swap/configs"
	"github.com/anjiri1684/skill_swap/database"
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/notifications"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/anjiri1684/skill_swap/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChain stands in for the Algorand client.
type fakeChain struct {
	mu          sync.Mutex
	payments    int
	nextAsset   uint64
	failQueries bool
}

func (f *fakeChain) RegisterUser(address, role string) (string, error) {
	id, err := chain.SkillTokenID(address)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("User %s registered as %s with skill token ID %d", address, role, id), nil
}

func (f *fakeChain) GetBalance(context.Context, string) chain.Result[float64] {
	if f.failQueries {
		return chain.Result[float64]{Failed: true, Err: chain.ErrQueryFailed}
	}
	return chain.Result[float64]{Value: 12.5}
}

func (f *fakeChain) GetReputation(context.Context, string) chain.Result[int] {
	return chain.Result[int]{Value: 3}
}

func (f *fakeChain) ListOwnedCollectibles(context.Context, string) chain.Result[[]uint64] {
	if f.failQueries {
		return chain.Result[[]uint64]{Failed: true, Err: chain.ErrQueryFailed}
	}
	return chain.Result[[]uint64]{Value: []uint64{1001}}
}

func (f *fakeChain) CollectibleMetadata(_ context.Context, assetID uint64) chain.Result[*models.Collectible] {
	if f.failQueries {
		return chain.Result[*models.Collectible]{Failed: true, Err: chain.ErrQueryFailed}
	}
	return chain.Result[*models.Collectible]{Value: &models.Collectible{ID: assetID, Name: fmt.Sprintf("NFT #%d", assetID)}}
}

func (f *fakeChain) ClaimCollectible(context.Context, string, uint64) chain.Result[bool] {
	return chain.Result[bool]{Value: true}
}

func (f *fakeChain) TransferCollectible(_ context.Context, _ uint64, _, to string, signer chain.Signer) (string, error) {
	if signer == nil {
		return "", chain.ErrWalletNotConnected
	}
	if !chain.ValidateAddress(to) {
		return "", fmt.Errorf("%w: receiver", chain.ErrInvalidAddress)
	}
	return "XFER", nil
}

func (f *fakeChain) SubmitPayment(_ context.Context, sender, receiver string, amount float64, signer chain.Signer) (string, error) {
	if signer == nil {
		return "", chain.ErrWalletNotConnected
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments++
	return fmt.Sprintf("PAY%d", f.payments), nil
}

func (f *fakeChain) TransactionStatus(context.Context, string) (chain.TxStatus, error) {
	return chain.TxStatus{ConfirmedRound: 1}, nil
}

func (f *fakeChain) IssueCollectible(_ context.Context, owner string, _ chain.Signer, skillID int64, sessionID *int64) *models.CollectibleRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextAsset++
	rec := &models.CollectibleRecord{AssetID: 5000 + f.nextAsset, Owner: owner, SkillID: skillID}
	if sessionID != nil {
		rec.SessionID = *sessionID
	}
	return rec
}

func (f *fakeChain) CompleteSession(ctx context.Context, address string, sessionID, skillID int64, signer chain.Signer) (string, *models.CollectibleRecord) {
	rec := f.IssueCollectible(ctx, address, signer, skillID, &sessionID)
	return fmt.Sprintf("Session %d completed and NFT awarded to %s!", sessionID, address), rec
}

func (f *fakeChain) paymentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payments
}

type testServer struct {
	app   *fiber.App
	chain *fakeChain
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	settings := &config.Settings{
		JWTSecret:       "test-secret",
		PaymentReceiver: crypto.GenerateAccount().Address.String(),
	}
	fc := &fakeChain{}
	hub := websocket.NewHub()
	notifier := notifications.NewNotifier(hub)
	catalog := services.NewCatalog()
	payments := services.NewPaymentService(fc, database.NewMemoryJournal())

	h := &handlers.Handler{
		Settings:    settings,
		Ledger:      fc,
		Sessions:    services.NewSessionRegistry(),
		Catalog:     catalog,
		Bookings:    services.NewBookingService(catalog, payments, fc, notifier, settings.PaymentReceiver),
		Reviews:     services.NewReviewService(catalog, notifier),
		Payments:    payments,
		Completions: services.NewCompletionService(catalog, fc, nil, notifier),
		Dashboard:   services.NewDashboardService(catalog),
		Mentors:     services.NewMentorDirectory(nil),
		Notifier:    notifier,
		Hub:         hub,
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	Setup(app, h, middleware.NewRateLimiter(100, 100))
	return &testServer{app: app, chain: fc}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) connect(t *testing.T, role models.Role) (token, address string) {
	t.Helper()
	account := crypto.GenerateAccount()
	phrase, err := mnemonic.FromPrivateKey(account.PrivateKey)
	require.NoError(t, err)

	status, body := s.do(t, http.MethodPost, "/api/v1/wallet/connect", "", fiber.Map{
		"provider": "mnemonic",
		"mnemonic": phrase,
		"role":     role,
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	return body["token"].(string), account.Address.String()
}

func TestHealthAndConfig(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = s.do(t, http.MethodGet, "/api/v1/config", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["categories"], len(config.SkillCategories))
	assert.Len(t, body["levels"], 3)
}

func TestBookingOverHTTP(t *testing.T) {
	s := newTestServer(t)
	teacherToken, teacher := s.connect(t, models.RoleTeacher)
	learnerToken, learner := s.connect(t, models.RoleLearner)

	status, skill := s.do(t, http.MethodPost, "/api/v1/skills", teacherToken, fiber.Map{
		"name":         "Intro to Rust",
		"description":  "Ownership and borrowing.",
		"rate":         10,
		"category":     "Programming",
		"level":        "Beginner",
		"availability": []fiber.Map{{"slot": "Friday 9 AM", "link": "https://meet.example.com/L"}},
	})
	require.Equal(t, fiber.StatusCreated, status, skill)
	assert.Equal(t, teacher, skill["teacher"])
	skillID := int64(skill["id"].(float64))
	skillPath := fmt.Sprintf("/api/v1/skills/%d", skillID)

	_, view := s.do(t, http.MethodGet, skillPath, "", nil)
	slot := view["availability"].([]interface{})[0].(map[string]interface{})
	assert.Nil(t, slot["link"])
	assert.Equal(t, false, slot["booked"])

	status, flow := s.do(t, http.MethodPost, "/api/v1/bookings", learnerToken, fiber.Map{"skill_id": skillID, "slot": "Friday 9 AM"})
	require.Equal(t, fiber.StatusCreated, status, flow)
	assert.Equal(t, string(models.BookingAwaitingInput), flow["state"])
	flowID := flow["id"].(string)

	status, flow = s.do(t, http.MethodPost, "/api/v1/bookings/"+flowID+"/confirm", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, status, flow)
	assert.Equal(t, string(models.BookingConfirmed), flow["state"])
	assert.Equal(t, "https://meet.example.com/L", flow["meeting_link"])
	assert.Equal(t, 1, s.chain.paymentCount())

	status, body := s.do(t, http.MethodPost, "/api/v1/bookings/"+flowID+"/confirm", learnerToken, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", body["code"])

	_, view = s.do(t, http.MethodGet, skillPath, learnerToken, nil)
	slot = view["availability"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "https://meet.example.com/L", slot["link"])
	assert.Equal(t, true, view["reviewable"])

	status, body = s.do(t, http.MethodGet, "/api/v1/bookings/me", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["bookings"], 1)

	status, body = s.do(t, http.MethodPost, "/api/v1/bookings/complete", teacherToken, fiber.Map{"skill_id": skillID, "slot": "Friday 9 AM"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, body = s.do(t, http.MethodPost, "/api/v1/bookings/complete", learnerToken, fiber.Map{"skill_id": skillID, "slot": "Friday 9 AM"})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body["message"], learner)

	status, body = s.do(t, http.MethodPost, skillPath+"/reviews", learnerToken, fiber.Map{"rating": 0, "comment": "meh"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_INPUT", body["code"])

	status, body = s.do(t, http.MethodPost, skillPath+"/reviews", learnerToken, fiber.Map{"rating": 5, "comment": "Great session"})
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, 5.0, body["rating"])
	assert.Equal(t, string(models.ReviewModeView), body["mode"])

	status, body = s.do(t, http.MethodGet, "/api/v1/dashboard", teacherToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, 1.0, stats["completed_sessions"])
	assert.Equal(t, 10.0, stats["total_earnings"])

	status, body = s.do(t, http.MethodGet, "/api/v1/payments/me", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, body["payments"], 1)
	paymentPath := "/api/v1/payments/" + body["payments"].([]interface{})[0].(map[string]interface{})["id"].(string)

	status, body = s.do(t, http.MethodGet, paymentPath, learnerToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, learner, body["sender"])
	assert.Equal(t, string(models.PaymentConfirmed), body["status"])

	status, body = s.do(t, http.MethodGet, paymentPath, teacherToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])

	status, _ = s.do(t, http.MethodGet, "/api/v1/payments/not-a-uuid", learnerToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.do(t, http.MethodGet, "/api/v1/notifications", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["notifications"])
}

func TestWatchSessionCannotPay(t *testing.T) {
	s := newTestServer(t)
	teacherToken, _ := s.connect(t, models.RoleTeacher)

	status, skill := s.do(t, http.MethodPost, "/api/v1/skills", teacherToken, fiber.Map{
		"name": "Guitar", "description": "Chords.", "rate": 3, "category": "Music",
		"availability": []fiber.Map{{"slot": "Monday 6 PM"}},
	})
	require.Equal(t, fiber.StatusCreated, status, skill)

	status, body := s.do(t, http.MethodPost, "/api/v1/wallet/connect", "", fiber.Map{
		"provider": "watch",
		"address":  crypto.GenerateAccount().Address.String(),
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	watchToken := body["token"].(string)

	_, flow := s.do(t, http.MethodPost, "/api/v1/bookings", watchToken, fiber.Map{"skill_id": skill["id"], "slot": "Monday 6 PM"})
	status, body = s.do(t, http.MethodPost, "/api/v1/bookings/"+flow["id"].(string)+"/confirm", watchToken, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "WALLET_NOT_CONNECTED", body["code"])
	assert.Equal(t, config.MsgWalletNotConnected, body["error"])
	assert.Equal(t, string(models.BookingErrored), body["flow"].(map[string]interface{})["state"])
	assert.Zero(t, s.chain.paymentCount())
}

func TestErrorsAndQueryResults(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/v1/skills/999", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])

	status, body = s.do(t, http.MethodPost, "/api/v1/bookings", "", fiber.Map{"skill_id": 1, "slot": "x"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])

	address := crypto.GenerateAccount().Address.String()
	status, body = s.do(t, http.MethodGet, "/api/v1/wallet/"+address+"/balance", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 12.5, body["balance"])
	assert.Equal(t, false, body["failed"])

	s.chain.failQueries = true
	status, body = s.do(t, http.MethodGet, "/api/v1/wallet/"+address+"/balance", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 0.0, body["balance"])
	assert.Equal(t, true, body["failed"])

	status, body = s.do(t, http.MethodGet, "/api/v1/collectibles/42", "", nil)
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Equal(t, "QUERY_FAILED", body["code"])
}

func TestListSkillsHighlightsQuery(t *testing.T) {
	s := newTestServer(t)
	teacherToken, _ := s.connect(t, models.RoleTeacher)

	status, skill := s.do(t, http.MethodPost, "/api/v1/skills", teacherToken, fiber.Map{
		"name": "Rust for <b>teams</b>", "description": "Practical rust.", "rate": 4, "category": "Programming",
		"availability": []fiber.Map{{"slot": "Tuesday 10 AM"}},
	})
	require.Equal(t, fiber.StatusCreated, status, skill)

	status, body := s.do(t, http.MethodGet, "/api/v1/skills?q=rust", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	plain := body["skills"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Rust for <b>teams</b>", plain["name"])

	status, body = s.do(t, http.MethodGet, "/api/v1/skills?q=rust&highlight=1", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, 1.0, body["count"])
	marked := body["skills"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "<mark>Rust</mark> for &lt;b&gt;teams&lt;/b&gt;", marked["name"])
	assert.Equal(t, "Practical <mark>rust</mark>.", marked["description"])
}

func TestWalletLifecycle(t *testing.T) {
	s := newTestServer(t)
	token, address := s.connect(t, "")

	status, body := s.do(t, http.MethodPost, "/api/v1/wallet/register", token, fiber.Map{"role": "teacher"})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body["message"], address)
	newToken := body["token"].(string)

	status, body = s.do(t, http.MethodGet, "/api/v1/wallet/me", newToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "teacher", body["role"])
	assert.Equal(t, true, body["can_sign"])

	status, body = s.do(t, http.MethodPost, "/api/v1/collectibles/1001/transfer", newToken, fiber.Map{"to": "not-an-address"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, "/api/v1/wallet/disconnect", newToken, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, body = s.do(t, http.MethodGet, "/api/v1/wallet/me", newToken, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "WALLET_NOT_CONNECTED", body["code"])
}

func TestMentors(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/v1/mentors", "", fiber.Map{
		"name": "Ada", "email": "ada@example.com", "expertise": []string{"Go", "Rust"},
		"rate": 20, "wallet_address": crypto.GenerateAccount().Address.String(),
	})
	require.Equal(t, fiber.StatusCreated, status, body)

	status, body = s.do(t, http.MethodPost, "/api/v1/mentors", "", fiber.Map{"name": "Bob", "email": "nope"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.do(t, http.MethodGet, "/api/v1/mentors?q=rust", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1.0, body["count"])

	status, _ = s.do(t, http.MethodGet, "/api/v1/mentors/upload-signature", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}
