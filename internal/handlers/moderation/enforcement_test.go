package handlers

import (
	"context"
	"strings"
	"testing"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/tecsopro/tecsobot/internal/db"
)

func newTestEnforcer() (*Enforcer, *fakeLedger, *fakePlatform, *fakeNotifier) {
	ledger := newFakeLedger()
	platform := newFakePlatform()
	notifier := &fakeNotifier{}
	engine := NewWarnEngine(ledger, platform, notifier, "en")
	svc := &fakeService{db: ledger, platform: platform}
	enforcer := &Enforcer{
		s:        svc,
		platform: platform,
		words:    ledger,
		engine:   engine,
		notifier: notifier,
		lang:     "en",
	}
	return enforcer, ledger, platform, notifier
}

func groupUpdate(messageID int, text string) (*api.Update, *api.Chat, *api.User) {
	chat := &api.Chat{ID: 1, Type: "supergroup"}
	user := &api.User{ID: 100, UserName: "someone"}
	u := &api.Update{
		Message: &api.Message{
			MessageID: messageID,
			Text:      text,
			Chat:      *chat,
			From:      user,
		},
	}
	return u, chat, user
}

func TestEnforcerIgnoresCleanMessages(t *testing.T) {
	t.Parallel()

	enforcer, ledger, platform, _ := newTestEnforcer()
	ctx := context.Background()
	if _, err := ledger.AddBannedWord(ctx, 1, "spam", 5); err != nil {
		t.Fatal(err)
	}

	u, chat, user := groupUpdate(7, "hello there")
	proceed, err := enforcer.Handle(ctx, u, chat, user)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !proceed {
		t.Fatal("clean message must proceed down the chain")
	}
	if len(platform.deleted) != 0 {
		t.Fatal("nothing should be deleted")
	}
}

func TestEnforcerEmptyWordlist(t *testing.T) {
	t.Parallel()

	enforcer, _, platform, _ := newTestEnforcer()
	ctx := context.Background()

	u, chat, user := groupUpdate(7, "spam spam spam")
	proceed, err := enforcer.Handle(ctx, u, chat, user)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !proceed || len(platform.deleted) != 0 {
		t.Fatal("no enforcement expected with an empty word list")
	}
}

func TestEnforcerDeletesAndWarnsOnHit(t *testing.T) {
	t.Parallel()

	enforcer, ledger, platform, notifier := newTestEnforcer()
	ctx := context.Background()
	if _, err := ledger.AddBannedWord(ctx, 1, "spam", 5); err != nil {
		t.Fatal(err)
	}

	u, chat, user := groupUpdate(7, "buy my SPAMMY stuff")
	proceed, err := enforcer.Handle(ctx, u, chat, user)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if proceed {
		t.Fatal("a hit must stop the chain")
	}
	if len(platform.deleted) != 1 || platform.deleted[0] != 7 {
		t.Fatalf("deleted = %v, want [7]", platform.deleted)
	}
	count, _ := ledger.CountWarns(ctx, 1, 100)
	if count != 1 {
		t.Fatalf("warn count = %d, want 1", count)
	}
	if len(ledger.warns) != 1 || ledger.warns[0].IssuerID != 0 {
		t.Fatalf("warn = %+v, want system issuer", ledger.warns)
	}
	if len(platform.sent) == 0 || !strings.Contains(platform.sent[0], "1/3") {
		t.Fatalf("notice = %v, want count 1/3", platform.sent)
	}
	found := false
	for _, note := range notifier.notes {
		if strings.Contains(note, "WORD HIT") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a WORD HIT mod-log note")
	}
}

func TestEnforcerExemptsAdmins(t *testing.T) {
	t.Parallel()

	enforcer, ledger, platform, _ := newTestEnforcer()
	ctx := context.Background()
	if _, err := ledger.AddBannedWord(ctx, 1, "spam", 5); err != nil {
		t.Fatal(err)
	}
	platform.admins[100] = true

	u, chat, user := groupUpdate(7, "spam")
	proceed, err := enforcer.Handle(ctx, u, chat, user)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !proceed {
		t.Fatal("admin messages must proceed untouched")
	}
	if len(platform.deleted) != 0 {
		t.Fatal("admin message must not be deleted")
	}
	if count, _ := ledger.CountWarns(ctx, 1, 100); count != 0 {
		t.Fatal("admin must not be warned")
	}
}

func TestEnforcerThirdHitBans(t *testing.T) {
	t.Parallel()

	enforcer, ledger, platform, _ := newTestEnforcer()
	ctx := context.Background()
	if _, err := ledger.AddBannedWord(ctx, 1, "spam", 5); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		u, chat, user := groupUpdate(10+i, "spam again")
		if _, err := enforcer.Handle(ctx, u, chat, user); err != nil {
			t.Fatalf("Handle %d failed: %v", i, err)
		}
	}

	if len(platform.banned) != 1 || platform.banned[0] != 100 {
		t.Fatalf("banned = %v, want [100] after third hit", platform.banned)
	}
	if len(ledger.bans) != 1 || ledger.bans[0].Origin != db.BanOriginBannedWord {
		t.Fatalf("ban records = %+v, want one with origin banned_word", ledger.bans)
	}
}

func TestEnforcerChecksCaptions(t *testing.T) {
	t.Parallel()

	enforcer, ledger, platform, _ := newTestEnforcer()
	ctx := context.Background()
	if _, err := ledger.AddBannedWord(ctx, 1, "spam", 5); err != nil {
		t.Fatal(err)
	}

	chat := &api.Chat{ID: 1, Type: "supergroup"}
	user := &api.User{ID: 100}
	u := &api.Update{
		Message: &api.Message{
			MessageID: 7,
			Caption:   "spam in a photo caption",
			Chat:      *chat,
			From:      user,
		},
	}
	proceed, err := enforcer.Handle(ctx, u, chat, user)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if proceed || len(platform.deleted) != 1 {
		t.Fatal("caption hit must be enforced like text")
	}
}

func TestEnforcerSkipsPrivateChats(t *testing.T) {
	t.Parallel()

	enforcer, ledger, platform, _ := newTestEnforcer()
	ctx := context.Background()
	if _, err := ledger.AddBannedWord(ctx, 1, "spam", 5); err != nil {
		t.Fatal(err)
	}

	chat := &api.Chat{ID: 1, Type: "private"}
	user := &api.User{ID: 100}
	u := &api.Update{Message: &api.Message{MessageID: 7, Text: "spam", Chat: *chat, From: user}}
	proceed, err := enforcer.Handle(ctx, u, chat, user)
	if err != nil || !proceed {
		t.Fatalf("private chat must proceed, got %v, %v", proceed, err)
	}
	if len(platform.deleted) != 0 {
		t.Fatal("nothing should be deleted in private chats")
	}
}
