package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/metrics"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
)

type LicenseService struct {
	logger    *slog.Logger
	userRepo  repository.UserRepository
	keyRepo   repository.LicenseKeyRepository
	trialRepo repository.TrialRepository
	trialDays int
	tracer    trace.Tracer
}

func NewLicenseService(
	logger *slog.Logger,
	userRepo repository.UserRepository,
	keyRepo repository.LicenseKeyRepository,
	trialRepo repository.TrialRepository,
	trialDays int,
) *LicenseService {
	return &LicenseService{
		logger:    logger,
		userRepo:  userRepo,
		keyRepo:   keyRepo,
		trialRepo: trialRepo,
		trialDays: trialDays,
		tracer:    otel.Tracer("license"),
	}
}

// StartTrial grants a one-time trial. The trial row's primary key makes a
// second activation, sequential or concurrent, fail with ErrTrialExists.
func (s *LicenseService) StartTrial(ctx context.Context, userID int64, username string) (time.Time, error) {
	ctx, span := s.tracer.Start(ctx, "StartTrial")
	defer span.End()

	if _, err := s.userRepo.GetOrCreate(ctx, userID, username); err != nil {
		return time.Time{}, err
	}

	now := time.Now()
	expiresAt := now.AddDate(0, 0, s.trialDays)
	if err := s.trialRepo.Create(ctx, userID, now, expiresAt); err != nil {
		return time.Time{}, err
	}
	if err := s.userRepo.SetPro(ctx, userID, expiresAt); err != nil {
		return time.Time{}, err
	}

	s.logger.Info("Trial started", "user_id", userID, "expires_at", expiresAt)
	metrics.IncTrialsStarted()
	return expiresAt, nil
}

func (s *LicenseService) GenerateKey(ctx context.Context, days int, tier string) (*repository.LicenseKey, error) {
	ctx, span := s.tracer.Start(ctx, "GenerateKey")
	defer span.End()

	if days < 1 {
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalidArgument)
	}
	if tier == "" {
		tier = "pro"
	}
	key, err := s.keyRepo.Create(ctx, days, tier)
	if err != nil {
		return nil, err
	}

	s.logger.Info("License key generated", "key", key.Key, "days", days, "tier", tier)
	metrics.IncKeysIssued()
	return key, nil
}

// RedeemKey consumes a key and extends the user's pro grant. An unexpired
// grant is extended from its current expiry, a lapsed or absent one from
// now. Exactly one concurrent redeemer of the same key succeeds.
func (s *LicenseService) RedeemKey(ctx context.Context, userID int64, username, key string) (time.Time, error) {
	ctx, span := s.tracer.Start(ctx, "RedeemKey")
	defer span.End()

	user, err := s.userRepo.GetOrCreate(ctx, userID, username)
	if err != nil {
		return time.Time{}, err
	}

	lk, err := s.keyRepo.Redeem(ctx, key, userID)
	if err != nil {
		return time.Time{}, err
	}

	now := time.Now()
	base := now
	if user.IsPro && user.ProExpiresAt != nil && user.ProExpiresAt.After(now) {
		base = *user.ProExpiresAt
	}
	expiresAt := base.AddDate(0, 0, lk.Days)
	if err := s.userRepo.SetPro(ctx, userID, expiresAt); err != nil {
		return time.Time{}, err
	}

	s.logger.Info("License key redeemed", "user_id", userID, "key", key, "expires_at", expiresAt)
	metrics.IncKeysRedeemed()
	return expiresAt, nil
}

// ExpireCheck is the sweep that revokes lapsed pro grants and deactivates
// finished trials. It is idempotent for a fixed now.
func (s *LicenseService) ExpireCheck(ctx context.Context, now time.Time) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "ExpireCheck")
	defer span.End()

	expired, err := s.userRepo.ExpirePro(ctx, now)
	if err != nil {
		return 0, err
	}
	trials, err := s.trialRepo.DeactivateExpired(ctx, now)
	if err != nil {
		return expired, err
	}

	if expired > 0 || trials > 0 {
		s.logger.Info("Expiry sweep completed", "expired_users", expired, "deactivated_trials", trials)
	}
	if count, err := s.userRepo.CountPro(ctx); err == nil {
		metrics.SetActiveProUsers(float64(count))
	}
	return expired, nil
}

func (s *LicenseService) ProStatus(ctx context.Context, userID int64) (*repository.User, error) {
	ctx, span := s.tracer.Start(ctx, "ProStatus")
	defer span.End()
	return s.userRepo.Get(ctx, userID)
}

func (s *LicenseService) RevokeKey(ctx context.Context, key string) error {
	ctx, span := s.tracer.Start(ctx, "RevokeKey")
	defer span.End()
	return s.keyRepo.DeleteUnused(ctx, key)
}

func (s *LicenseService) ListUnusedKeys(ctx context.Context) ([]repository.LicenseKey, error) {
	ctx, span := s.tracer.Start(ctx, "ListUnusedKeys")
	defer span.End()
	return s.keyRepo.ListUnused(ctx)
}
