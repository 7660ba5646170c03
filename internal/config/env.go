package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"flightsurety/internal/domain"
	"flightsurety/internal/services"

	"github.com/shopspring/decimal"
)

type Env struct {
	AppAddr          string
	GinMode          string
	DBDSN            string
	NatsURL          string
	JWTSecret        string
	OwnerPrincipal   domain.Principal
	BootstrapAirline domain.Principal
	// AuthCredentials maps principal to bcrypt hash.
	AuthCredentials map[domain.Principal]string
	CORSOrigins     []string
	Params          services.Params
}

func LoadEnv() (Env, error) {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		jwtSecret = "super-secret-key-change-me"
	}

	owner := domain.NormalizePrincipal(os.Getenv("OWNER_PRINCIPAL"))
	if owner.IsZero() {
		return Env{}, fmt.Errorf("OWNER_PRINCIPAL is required")
	}
	bootstrap := domain.NormalizePrincipal(os.Getenv("BOOTSTRAP_AIRLINE"))
	if bootstrap.IsZero() {
		bootstrap = owner
	}

	creds, err := parseCredentials(os.Getenv("AUTH_CREDENTIALS"))
	if err != nil {
		return Env{}, err
	}

	params, err := loadParams()
	if err != nil {
		return Env{}, err
	}

	return Env{
		AppAddr:          appAddr,
		GinMode:          strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBDSN:            strings.TrimSpace(os.Getenv("DB_DSN")),
		NatsURL:          strings.TrimSpace(os.Getenv("NATS_URL")),
		JWTSecret:        jwtSecret,
		OwnerPrincipal:   owner,
		BootstrapAirline: bootstrap,
		AuthCredentials:  creds,
		CORSOrigins:      splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Params:           params,
	}, nil
}

// parseCredentials reads "principal:bcrypthash" pairs separated by commas.
func parseCredentials(raw string) (map[domain.Principal]string, error) {
	out := map[domain.Principal]string{}
	for _, pair := range splitList(raw) {
		p, hash, ok := strings.Cut(pair, ":")
		principal := domain.NormalizePrincipal(p)
		if !ok || principal.IsZero() || strings.TrimSpace(hash) == "" {
			return nil, fmt.Errorf("AUTH_CREDENTIALS entry %q must be principal:hash", pair)
		}
		out[principal] = strings.TrimSpace(hash)
	}
	return out, nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, v := range strings.Split(raw, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// loadParams starts from the protocol defaults and applies SURETY_* overrides.
func loadParams() (services.Params, error) {
	p := services.DefaultParams()

	decimals := []struct {
		key string
		dst *decimal.Decimal
	}{
		{"SURETY_FUNDING_THRESHOLD", &p.FundingThreshold},
		{"SURETY_INSURANCE_CAP", &p.InsuranceCap},
		{"SURETY_PAYOUT_MULTIPLIER", &p.PayoutMultiplier},
		{"SURETY_ORACLE_FEE", &p.OracleFee},
	}
	for _, d := range decimals {
		raw := strings.TrimSpace(os.Getenv(d.key))
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return p, fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"SURETY_ORACLE_QUORUM", &p.OracleQuorum},
		{"SURETY_BOOTSTRAP_AIRLINES", &p.BootstrapAirlines},
		{"SURETY_ORACLE_INDEXES", &p.OracleIndexes},
		{"SURETY_INDEX_SPACE", &p.IndexSpace},
	}
	for _, i := range ints {
		raw := strings.TrimSpace(os.Getenv(i.key))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return p, fmt.Errorf("%s: %w", i.key, err)
		}
		*i.dst = v
	}

	if raw := strings.TrimSpace(os.Getenv("SURETY_SEED")); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return p, fmt.Errorf("SURETY_SEED: %w", err)
		}
		p.Seed = v
	}

	return p, p.Validate()
}
