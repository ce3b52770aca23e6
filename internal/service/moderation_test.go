package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/messages"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/pipeline"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
)

func newTestModerationService(settings *repository.ChatSetting, filters []repository.Filter, domains []string, warnings *mockWarningRepo) *ModerationService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	if warnings == nil {
		warnings = newMockWarningRepo()
	}
	return NewModerationService(
		logger,
		&mockSettingsRepo{settings: settings},
		&mockFilterRepo{filters: filters},
		&mockWhitelistRepo{domains: domains},
		warnings,
		newMockMuteRepo(),
		time.Minute,
		30*time.Minute,
	)
}

func TestEvaluateMessage_AdminBypass(t *testing.T) {
	svc := newTestModerationService(
		&repository.ChatSetting{ChatID: -1, AntilinkEnabled: true, FloodLimit: 3},
		[]repository.Filter{{ID: 1, ChatID: -1, Pattern: "casino"}},
		nil, nil,
	)

	decision, err := svc.EvaluateMessage(context.Background(), pipeline.Payload{
		ChatID:   -1,
		SenderID: 1,
		Text:     "casino https://spam.io",
		IsAdmin:  true,
	})
	if err != nil {
		t.Fatalf("EvaluateMessage() error = %v", err)
	}
	if decision.Action != ActionAllow {
		t.Errorf("Admin message action = %v, want allow", decision.Action)
	}
}

func TestEvaluateMessage_KeywordDelete(t *testing.T) {
	svc := newTestModerationService(
		&repository.ChatSetting{ChatID: -1, FloodLimit: 100, FloodMode: "mute"},
		[]repository.Filter{{ID: 1, ChatID: -1, Pattern: "casino"}},
		nil, nil,
	)

	decision, err := svc.EvaluateMessage(context.Background(), pipeline.Payload{
		ChatID:   -1,
		SenderID: 2,
		Text:     "best casino bonuses",
	})
	if err != nil {
		t.Fatalf("EvaluateMessage() error = %v", err)
	}
	if decision.Action != ActionDelete {
		t.Errorf("Action = %v, want delete", decision.Action)
	}
	if decision.FilterName != "keyword_filter" {
		t.Errorf("FilterName = %q, want keyword_filter", decision.FilterName)
	}
}

func TestEvaluateMessage_LinkEscalation(t *testing.T) {
	warnings := newMockWarningRepo()
	svc := newTestModerationService(
		&repository.ChatSetting{ChatID: -1, AntilinkEnabled: true, FloodLimit: 100, FloodMode: "mute"},
		nil, nil, warnings,
	)
	ctx := context.Background()
	payload := pipeline.Payload{ChatID: -1, SenderID: 2, Text: "visit https://spam.io"}

	// First two violations warn and report the running count.
	for want := 1; want <= 2; want++ {
		decision, err := svc.EvaluateMessage(ctx, payload)
		if err != nil {
			t.Fatalf("EvaluateMessage() error = %v", err)
		}
		if decision.Action != ActionDeleteAndWarn {
			t.Fatalf("Violation %d action = %v, want delete_and_warn", want, decision.Action)
		}
		if decision.WarnCount != want {
			t.Errorf("Violation %d WarnCount = %d, want %d", want, decision.WarnCount, want)
		}
	}

	// The third violation reaches the threshold and converts to a ban.
	decision, err := svc.EvaluateMessage(ctx, payload)
	if err != nil {
		t.Fatalf("EvaluateMessage() error = %v", err)
	}
	if decision.Action != ActionBan {
		t.Fatalf("Third violation action = %v, want ban", decision.Action)
	}
	if decision.Reason != messages.ReasonTooManyWarnings {
		t.Errorf("Ban reason = %q, want %q", decision.Reason, messages.ReasonTooManyWarnings)
	}

	// The ban reset the ledger, so the next violation counts from one again.
	decision, err = svc.EvaluateMessage(ctx, payload)
	if err != nil {
		t.Fatalf("EvaluateMessage() error = %v", err)
	}
	if decision.Action != ActionDeleteAndWarn || decision.WarnCount != 1 {
		t.Errorf("Post-ban violation = (%v, %d), want (delete_and_warn, 1)", decision.Action, decision.WarnCount)
	}
}

func TestEvaluateMessage_RacingResetDoesNotDoubleBan(t *testing.T) {
	// Simulates the loser of a concurrent threshold race: the increment saw
	// a count past the threshold but another worker already reset the row.
	warnings := &mockWarningRepo{
		IncrementFunc: func(_ context.Context, _, _ int64) (int, error) {
			return 4, nil
		},
		ResetIfAtLeastFunc: func(_ context.Context, _, _ int64, _ int) (bool, error) {
			return false, nil
		},
	}
	svc := newTestModerationService(
		&repository.ChatSetting{ChatID: -1, AntilinkEnabled: true, FloodLimit: 100, FloodMode: "mute"},
		nil, nil, warnings,
	)

	decision, err := svc.EvaluateMessage(context.Background(), pipeline.Payload{
		ChatID:   -1,
		SenderID: 2,
		Text:     "https://spam.io",
	})
	if err != nil {
		t.Fatalf("EvaluateMessage() error = %v", err)
	}
	if decision.Action != ActionDeleteAndWarn {
		t.Errorf("Race loser action = %v, want delete_and_warn", decision.Action)
	}
	if decision.WarnCount != WarnThreshold {
		t.Errorf("Race loser WarnCount = %d, want %d", decision.WarnCount, WarnThreshold)
	}
}

func TestEvaluateMessage_FloodMute(t *testing.T) {
	svc := newTestModerationService(
		&repository.ChatSetting{ChatID: -1, FloodLimit: 2, FloodMode: "mute"},
		nil, nil, nil,
	)
	ctx := context.Background()
	payload := pipeline.Payload{ChatID: -1, SenderID: 2, Text: "hi"}

	for i := 0; i < 2; i++ {
		if decision, _ := svc.EvaluateMessage(ctx, payload); decision.Action != ActionAllow {
			t.Fatalf("Message %d action = %v, want allow", i+1, decision.Action)
		}
	}

	decision, err := svc.EvaluateMessage(ctx, payload)
	if err != nil {
		t.Fatalf("EvaluateMessage() error = %v", err)
	}
	if decision.Action != ActionMute {
		t.Fatalf("Flood action = %v, want mute", decision.Action)
	}
	if decision.MuteDuration != 30*time.Minute {
		t.Errorf("MuteDuration = %v, want 30m", decision.MuteDuration)
	}

	// The recorded mute now blocks the user's next message outright.
	decision, err = svc.EvaluateMessage(ctx, payload)
	if err != nil {
		t.Fatalf("EvaluateMessage() error = %v", err)
	}
	if decision.Action != ActionDelete || decision.FilterName != "mute_filter" {
		t.Errorf("Muted user message = (%v, %q), want (delete, mute_filter)", decision.Action, decision.FilterName)
	}
}

func TestWarnUser_Escalates(t *testing.T) {
	warnings := newMockWarningRepo()
	svc := newTestModerationService(nil, nil, nil, warnings)
	ctx := context.Background()

	for want := 1; want <= 2; want++ {
		decision, err := svc.WarnUser(ctx, -1, 7)
		if err != nil {
			t.Fatalf("WarnUser() error = %v", err)
		}
		if decision.Action != ActionDeleteAndWarn || decision.WarnCount != want {
			t.Errorf("WarnUser #%d = (%v, %d), want (delete_and_warn, %d)", want, decision.Action, decision.WarnCount, want)
		}
	}

	decision, err := svc.WarnUser(ctx, -1, 7)
	if err != nil {
		t.Fatalf("WarnUser() error = %v", err)
	}
	if decision.Action != ActionBan {
		t.Errorf("Third WarnUser action = %v, want ban", decision.Action)
	}
}

func TestSetFloodLimit_Validation(t *testing.T) {
	svc := newTestModerationService(nil, nil, nil, nil)
	ctx := context.Background()

	for _, limit := range []int{0, -5, 101} {
		if err := svc.SetFloodLimit(ctx, -1, limit); err == nil {
			t.Errorf("SetFloodLimit(%d) expected error", limit)
		}
	}
	if err := svc.SetFloodLimit(ctx, -1, 10); err != nil {
		t.Errorf("SetFloodLimit(10) error = %v", err)
	}
}

func TestSetFloodMode_Validation(t *testing.T) {
	svc := newTestModerationService(nil, nil, nil, nil)
	ctx := context.Background()

	if err := svc.SetFloodMode(ctx, -1, "kick"); err == nil {
		t.Error("SetFloodMode(kick) expected error")
	}
	for _, mode := range []string{"mute", "ban"} {
		if err := svc.SetFloodMode(ctx, -1, mode); err != nil {
			t.Errorf("SetFloodMode(%s) error = %v", mode, err)
		}
	}
}

func TestSetLang_Validation(t *testing.T) {
	svc := newTestModerationService(nil, nil, nil, nil)
	ctx := context.Background()

	if err := svc.SetLang(ctx, -1, "fr"); err == nil {
		t.Error("SetLang(fr) expected error")
	}
	if err := svc.SetLang(ctx, -1, "en"); err != nil {
		t.Errorf("SetLang(en) error = %v", err)
	}
}

func TestAddWhitelistDomain_Normalizes(t *testing.T) {
	svc := newTestModerationService(nil, nil, nil, nil)

	norm, err := svc.AddWhitelistDomain(context.Background(), -1, "https://WWW.Example.COM/path?q=1")
	if err != nil {
		t.Fatalf("AddWhitelistDomain() error = %v", err)
	}
	if norm != "example.com" {
		t.Errorf("Normalized domain = %q, want example.com", norm)
	}

	if _, err := svc.AddWhitelistDomain(context.Background(), -1, "not a domain"); err == nil {
		t.Error("AddWhitelistDomain with garbage expected error")
	}
}
