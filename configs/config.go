package config

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// devJWTSecret signs tokens outside production when JWT_SECRET is unset.
const devJWTSecret = "change-me"

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

var loadEnvOnce sync.Once

func loadEnv() {
	loadEnvOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Debug().Msg(".env file not found, reading from system environment variables")
		}
	})
}

// Settings is the typed runtime configuration of the API.
type Settings struct {
	Port     string `env:"PORT,default=8080"`
	AppEnv   string `env:"APP_ENV,default=production"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	JWTSecret   string `env:"JWT_SECRET"`
	DatabaseURL string `env:"DATABASE_URL"`

	AlgodServer   string        `env:"ALGOD_SERVER,default=https://testnet-api.algonode.cloud"`
	AlgodToken    string        `env:"ALGOD_TOKEN"`
	IndexerServer string        `env:"INDEXER_SERVER,default=https://testnet-idx.algonode.cloud"`
	IndexerToken  string        `env:"INDEXER_TOKEN"`
	LedgerTimeout time.Duration `env:"LEDGER_TIMEOUT,default=10s"`
	ConfirmRounds uint64        `env:"CONFIRMATION_ROUNDS,default=4"`

	PaymentReceiver string  `env:"PAYMENT_RECEIVER_ADDRESS,default=2ZTFJNDXPWDETGJQQN33HAATRHXZMBWESKO2AUFZUHERH2H3TG4XTNPL4Y"`
	ListingFeeAlgo  float64 `env:"LISTING_FEE_ALGO,default=0"`

	FlowTTL           time.Duration `env:"FLOW_TTL,default=30m"`
	ReconcileSchedule string        `env:"RECONCILE_SCHEDULE,default=@every 1m"`
	PaymentRateLimit  int           `env:"PAYMENT_RATE_LIMIT,default=1"`
	PaymentRateBurst  int           `env:"PAYMENT_RATE_BURST,default=3"`

	SeedDemoData        bool   `env:"SEED_DEMO_DATA,default=false"`
	CertificatesEnabled bool   `env:"CERTIFICATES_ENABLED,default=false"`
	CloudinaryURL       string `env:"CLOUDINARY_URL"`

	BrevoAPIKey     string `env:"BREVO_API_KEY"`
	EmailSender     string `env:"EMAIL_SENDER"`
	EmailSenderName string `env:"EMAIL_SENDER_NAME"`
}

// Load reads .env (if present) and decodes the environment into Settings.
func Load() (*Settings, error) {
	loadEnv()

	var s Settings
	if err := envdecode.Decode(&s); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, err
	}
	s.AppEnv = normalizeEnv(s.AppEnv)
	if s.JWTSecret == "" || s.JWTSecret == devJWTSecret {
		if s.AppEnv == "production" {
			return nil, ErrMissingJWTSecret
		}
		s.JWTSecret = devJWTSecret
	}
	return &s, nil
}

func (s *Settings) IsDevelopment() bool {
	return s != nil && s.AppEnv == "development"
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production", "":
		return "production"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
