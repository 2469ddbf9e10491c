package notifier

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestTruncateMessage_ShortPassesThrough(t *testing.T) {
	msg := "💼 <b>Portfolio:</b> $1,000.00\n"
	if got := truncateMessage(msg); got != msg {
		t.Errorf("short message altered: %q", got)
	}
}

func TestTruncateMessage_CutsOnLineBoundary(t *testing.T) {
	// An overlong line-oriented report with a tag pair on every line.
	var b strings.Builder
	for b.Len() <= telegramMessageLimit {
		b.WriteString("  <b>BTC</b>: 41.52% ($39,940.00 @ $95,000.10)\n")
	}
	got := truncateMessage(b.String())

	if len(got) > telegramMessageLimit {
		t.Fatalf("truncated message is %d bytes, limit is %d", len(got), telegramMessageLimit)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("truncated message does not end with ellipsis: %q", got[len(got)-8:])
	}
	// A whole-line cut keeps every tag balanced.
	body := strings.TrimSuffix(got, "…")
	if !strings.HasSuffix(body, ")") {
		t.Errorf("cut landed mid-line: %q", body[len(body)-20:])
	}
	if strings.Count(body, "<b>") != strings.Count(body, "</b>") {
		t.Errorf("unbalanced tags after truncation: %d open, %d close",
			strings.Count(body, "<b>"), strings.Count(body, "</b>"))
	}
}

func TestTruncateMessage_RuneBoundaryWithoutNewlines(t *testing.T) {
	long := strings.Repeat("📊", telegramMessageLimit)
	got := truncateMessage(long)
	if len(got) > telegramMessageLimit {
		t.Fatalf("truncated message is %d bytes, limit is %d", len(got), telegramMessageLimit)
	}
	for _, r := range got {
		if r == '�' {
			t.Fatal("truncation split a rune")
		}
	}
}

func TestStartPolling_RejectsNonNumericChatID(t *testing.T) {
	// Commands can place live orders, so a chat id that cannot be verified
	// must disable the command surface rather than open it to every chat.
	tn := NewTelegramNotifier("token", "operator-chat", "")

	done := make(chan struct{})
	go func() {
		tn.StartPolling(context.Background(), func(string) string {
			t.Error("handler invoked despite invalid chat id")
			return ""
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("polling kept running with an unverifiable chat id")
	}
}
