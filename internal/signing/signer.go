package signing

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tickerbot/internal/config"
	"tickerbot/internal/domain"
)

// Signer produces the timestamp and base64 signature headers for one pending
// request. The timestamp is read from the clock at call time, never ahead of
// it: the upstream enforces a freshness window and rejects stale signatures.
//
// The message concatenation order is part of the contract with the upstream
// verifier. The two strategies use different orders and different timestamp
// units; they must never be mixed.
type Signer interface {
	Sign(method, path, body string) (timestamp, signature string, err error)
}

// FromConfig selects the strategy once at startup.
func FromConfig(cfg *config.Config) (Signer, error) {
	switch cfg.SigningMode {
	case config.SigningModeHMAC:
		return NewHMACSigner(cfg.SharedSecret)
	case config.SigningModeEd25519:
		return NewEd25519Signer(cfg.APIKey, cfg.PrivateSeed)
	default:
		return nil, &domain.ConfigError{Reason: fmt.Sprintf("unknown signing mode %q", cfg.SigningMode)}
	}
}

// HMACSigner signs timestamp‖METHOD‖path‖body with HMAC-SHA256 over the
// shared secret. Timestamps are Unix milliseconds.
type HMACSigner struct {
	secret []byte
	now    func() time.Time
}

func NewHMACSigner(secret string) (*HMACSigner, error) {
	if secret == "" {
		return nil, &domain.ConfigError{Reason: "shared secret is not set"}
	}
	return &HMACSigner{secret: []byte(secret), now: time.Now}, nil
}

func (s *HMACSigner) Sign(method, path, body string) (string, string, error) {
	timestamp := strconv.FormatInt(s.now().UnixMilli(), 10)
	message := timestamp + strings.ToUpper(method) + path + body

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(message))
	return timestamp, base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Ed25519Signer signs apiKey‖timestamp‖path‖method‖body with a keypair
// derived deterministically from a 32-byte seed. Timestamps are Unix seconds.
type Ed25519Signer struct {
	apiKey string
	key    ed25519.PrivateKey
	now    func() time.Time
}

func NewEd25519Signer(apiKey, seedBase64 string) (*Ed25519Signer, error) {
	if seedBase64 == "" {
		return nil, &domain.ConfigError{Reason: "private key seed is not set"}
	}
	seed, err := base64.StdEncoding.DecodeString(seedBase64)
	if err != nil {
		return nil, &domain.ConfigError{Reason: "private key seed is not valid base64"}
	}
	if len(seed) != ed25519.SeedSize {
		return nil, &domain.ValidationError{Reason: fmt.Sprintf("private key seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))}
	}
	return &Ed25519Signer{
		apiKey: apiKey,
		key:    ed25519.NewKeyFromSeed(seed),
		now:    time.Now,
	}, nil
}

// PublicKey exposes the verifying half, handy for key registration.
func (s *Ed25519Signer) PublicKey() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

func (s *Ed25519Signer) Sign(method, path, body string) (string, string, error) {
	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	message := s.apiKey + timestamp + path + strings.ToUpper(method) + body

	sig := ed25519.Sign(s.key, []byte(message))
	return timestamp, base64.StdEncoding.EncodeToString(sig), nil
}
