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

// SendFunc delivers a broadcast to a chat. It is supplied by the transport
// glue so no store transaction is ever held across the network call.
type SendFunc func(ctx context.Context, chatID int64, text string) error

const minPromoIntervalMinutes = 10

type PromoService struct {
	logger    *slog.Logger
	promoRepo repository.PromoRepository
	tracer    trace.Tracer
}

func NewPromoService(logger *slog.Logger, promoRepo repository.PromoRepository) *PromoService {
	return &PromoService{
		logger:    logger,
		promoRepo: promoRepo,
		tracer:    otel.Tracer("promo"),
	}
}

// Tick sends every due broadcast. last_sent_at advances whether or not the
// send succeeded, so a failing chat waits a full interval before the next
// attempt instead of being retried every tick.
func (s *PromoService) Tick(ctx context.Context, now time.Time, send SendFunc) (int, error) {
	ctx, span := s.tracer.Start(ctx, "PromoTick")
	defer span.End()

	settings, err := s.promoRepo.ListEnabled(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, ps := range settings {
		if ps.ChatID == 0 || !s.isDue(&ps, now) {
			continue
		}
		if err := send(ctx, ps.ChatID, ps.Content); err != nil {
			s.logger.Error("Failed to send promo", "chat_id", ps.ChatID, "error", err)
		} else {
			sent++
			metrics.IncPromosSent()
		}
		if err := s.promoRepo.MarkSent(ctx, ps.ChatID, now); err != nil {
			s.logger.Error("Failed to mark promo sent", "chat_id", ps.ChatID, "error", err)
		}
	}
	return sent, nil
}

func (s *PromoService) isDue(ps *repository.PromoSetting, now time.Time) bool {
	if ps.LastSentAt == nil {
		return true
	}
	return now.Sub(*ps.LastSentAt) >= time.Duration(ps.IntervalMinutes)*time.Minute
}

func (s *PromoService) SetEnabled(ctx context.Context, chatID int64, enabled bool) error {
	ctx, span := s.tracer.Start(ctx, "PromoSetEnabled")
	defer span.End()

	ps, err := s.promoRepo.GetOrCreate(ctx, chatID)
	if err != nil {
		return err
	}
	ps.Enabled = enabled
	return s.promoRepo.Update(ctx, ps)
}

func (s *PromoService) SetContent(ctx context.Context, chatID int64, content string) error {
	ctx, span := s.tracer.Start(ctx, "PromoSetContent")
	defer span.End()

	if content == "" {
		return fmt.Errorf("%w: empty broadcast content", ErrInvalidArgument)
	}
	ps, err := s.promoRepo.GetOrCreate(ctx, chatID)
	if err != nil {
		return err
	}
	ps.Content = content
	return s.promoRepo.Update(ctx, ps)
}

func (s *PromoService) SetInterval(ctx context.Context, chatID int64, minutes int) error {
	ctx, span := s.tracer.Start(ctx, "PromoSetInterval")
	defer span.End()

	if minutes < minPromoIntervalMinutes {
		return fmt.Errorf("%w: interval must be at least %d minutes", ErrInvalidArgument, minPromoIntervalMinutes)
	}
	ps, err := s.promoRepo.GetOrCreate(ctx, chatID)
	if err != nil {
		return err
	}
	ps.IntervalMinutes = minutes
	return s.promoRepo.Update(ctx, ps)
}

func (s *PromoService) Status(ctx context.Context, chatID int64) (*repository.PromoSetting, error) {
	ctx, span := s.tracer.Start(ctx, "PromoStatus")
	defer span.End()
	return s.promoRepo.GetOrCreate(ctx, chatID)
}
