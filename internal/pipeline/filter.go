package pipeline

import (
	"context"
	"time"
)

type Result struct {
	IsAllowed    bool
	Reason       string
	FilterName   string
	ShouldDelete bool
	ShouldWarn   bool
	ShouldMute   bool
	ShouldBan    bool
	MuteDuration time.Duration
}

type Filter interface {
	Name() string
	Process(ctx context.Context, payload Payload) (*Result, error)
}
