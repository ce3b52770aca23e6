package pipeline

import (
	"fmt"
)

type Payload struct {
	ChatID      int64
	SenderID    int64
	SenderName  string
	Text        string
	IsForwarded bool
	IsAdmin     bool
}

func (p Payload) UserKey() string {
	return fmt.Sprintf("%d:%d", p.ChatID, p.SenderID)
}
