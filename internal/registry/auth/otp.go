package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"

	"github.com/promptdial/promptdial/internal/registry/kv"
	"github.com/promptdial/promptdial/internal/registry/logging"
)

const codeDigits = 6

// OTPConfig controls code lifetime and abuse limits.
type OTPConfig struct {
	AllowedDomains []string      `env:"ALLOWED_EMAIL_DOMAINS" envSeparator:","`
	CodeTTL        time.Duration `env:"OTP_TTL" envDefault:"10m"`
	MaxAttempts    int           `env:"OTP_MAX_ATTEMPTS" envDefault:"5"`
	RequestLimit   int           `env:"OTP_REQUEST_LIMIT" envDefault:"3"`
	RequestWindow  time.Duration `env:"OTP_REQUEST_WINDOW" envDefault:"15m"`
}

// OTPService issues and verifies single-use login codes. Codes are stored
// bcrypt-hashed in the key-value store.
type OTPService struct {
	store  kv.Store
	mailer Mailer
	cfg    OTPConfig
	random func() (string, error)
}

// NewOTPService wires the store and mailer.
func NewOTPService(store kv.Store, mailer Mailer, cfg OTPConfig) *OTPService {
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = 10 * time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.RequestLimit <= 0 {
		cfg.RequestLimit = 3
	}
	if cfg.RequestWindow <= 0 {
		cfg.RequestWindow = 15 * time.Minute
	}
	return &OTPService{store: store, mailer: mailer, cfg: cfg, random: randomCode}
}

func codeKey(email string) string     { return "otp:code:" + email }
func attemptsKey(email string) string { return "otp:attempts:" + email }
func rateKey(email string) string     { return "otp:rate:" + email }

// NormalizeEmail validates and lowercases an address, then applies the domain allow list.
func (s *OTPService) NormalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	email := strings.ToLower(addr.Address)
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return "", ErrInvalidEmail
	}
	if len(s.cfg.AllowedDomains) > 0 {
		domain := email[at+1:]
		allowed := slices.ContainsFunc(s.cfg.AllowedDomains, func(d string) bool {
			return strings.EqualFold(strings.TrimSpace(d), domain)
		})
		if !allowed {
			return "", ErrDomainNotAllowed
		}
	}
	return email, nil
}

// RequestCode sends a fresh code to email, replacing any outstanding one.
func (s *OTPService) RequestCode(ctx context.Context, rawEmail string) error {
	email, err := s.NormalizeEmail(rawEmail)
	if err != nil {
		return err
	}

	count, err := s.store.Incr(ctx, rateKey(email))
	if err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	if count == 1 {
		if err := s.store.Expire(ctx, rateKey(email), s.cfg.RequestWindow); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}
	if count > int64(s.cfg.RequestLimit) {
		retry, err := s.store.TTL(ctx, rateKey(email))
		if err != nil || retry < 0 {
			retry = s.cfg.RequestWindow
		}
		return &LimitError{Err: ErrRateLimited, RetryAfter: retry}
	}

	code, err := s.random()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}
	if err := s.store.Set(ctx, codeKey(email), string(hash), s.cfg.CodeTTL); err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	if _, err := s.store.Del(ctx, attemptsKey(email)); err != nil {
		return fmt.Errorf("reset attempts: %w", err)
	}

	body := fmt.Sprintf("Your PromptDial sign-in code is %s.\n\nIt expires in %d minutes. If you did not request it, ignore this email.\n",
		code, int(s.cfg.CodeTTL.Minutes()))
	if err := s.mailer.Send(ctx, email, "Your PromptDial sign-in code", body); err != nil {
		_, _ = s.store.Del(ctx, codeKey(email))
		logging.Log(ctx, logging.SystemLog, zapcore.ErrorLevel, "failed to deliver sign-in code", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	return nil
}

// VerifyCode checks code for email and consumes it on success. It returns
// the normalized email.
func (s *OTPService) VerifyCode(ctx context.Context, rawEmail, code string) (string, error) {
	email, err := s.NormalizeEmail(rawEmail)
	if err != nil {
		return "", err
	}

	hash, err := s.store.Get(ctx, codeKey(email))
	if errors.Is(err, kv.ErrNotFound) {
		return "", ErrCodeExpired
	}
	if err != nil {
		return "", fmt.Errorf("load code: %w", err)
	}

	attempts, err := s.store.Incr(ctx, attemptsKey(email))
	if err != nil {
		return "", fmt.Errorf("count attempts: %w", err)
	}
	if attempts == 1 {
		if err := s.store.Expire(ctx, attemptsKey(email), s.cfg.CodeTTL); err != nil {
			return "", fmt.Errorf("count attempts: %w", err)
		}
	}
	if attempts > int64(s.cfg.MaxAttempts) {
		_, _ = s.store.Del(ctx, codeKey(email), attemptsKey(email))
		return "", &LimitError{Err: ErrTooManyAttempts}
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(code))) != nil {
		remaining := s.cfg.MaxAttempts - int(attempts)
		if remaining <= 0 {
			_, _ = s.store.Del(ctx, codeKey(email), attemptsKey(email))
		}
		return "", &LimitError{Err: ErrInvalidCode, Remaining: remaining}
	}

	if _, err := s.store.Del(ctx, codeKey(email), attemptsKey(email)); err != nil {
		return "", fmt.Errorf("consume code: %w", err)
	}
	return email, nil
}

func randomCode() (string, error) {
	limit := big.NewInt(1)
	for range codeDigits {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
