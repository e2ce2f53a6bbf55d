package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/tecsopro/tecsobot/internal/bot"
	"github.com/tecsopro/tecsobot/internal/db"
)

type fakeLedger struct {
	mu        sync.Mutex
	settings  map[int64]*db.Settings
	warns     []*db.Warn
	bans      []*db.Ban
	unbans    []*db.Unban
	words     map[int64][]string
	nextID    int64
	insertErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		settings: map[int64]*db.Settings{},
		words:    map[int64][]string{},
	}
}

func (f *fakeLedger) GetSettings(_ context.Context, chatID int64) (*db.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.settings[chatID]; ok {
		copied := *s
		return &copied, nil
	}
	s := db.DefaultSettings(chatID)
	f.settings[chatID] = s
	copied := *s
	return &copied, nil
}

func (f *fakeLedger) SetWarnThreshold(_ context.Context, chatID int64, threshold int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.settings[chatID]
	if !ok {
		s = db.DefaultSettings(chatID)
		f.settings[chatID] = s
	}
	s.WarnThreshold = threshold
	return nil
}

func (f *fakeLedger) SetLogChatID(_ context.Context, chatID int64, logChatID *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.settings[chatID]
	if !ok {
		s = db.DefaultSettings(chatID)
		f.settings[chatID] = s
	}
	s.LogChatID = logChatID
	return nil
}

func (f *fakeLedger) InsertWarn(_ context.Context, warn *db.Warn) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	warn.ID = f.nextID
	copied := *warn
	f.warns = append(f.warns, &copied)
	return nil
}

func (f *fakeLedger) CountWarns(_ context.Context, chatID, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, w := range f.warns {
		if w.ChatID == chatID && w.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeLedger) ListWarns(_ context.Context, chatID, userID int64, limit int) ([]*db.Warn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*db.Warn
	for i := len(f.warns) - 1; i >= 0 && len(out) < limit; i-- {
		w := f.warns[i]
		if w.ChatID == chatID && w.UserID == userID {
			copied := *w
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeLedger) DeleteLastWarn(_ context.Context, chatID, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.warns) - 1; i >= 0; i-- {
		w := f.warns[i]
		if w.ChatID == chatID && w.UserID == userID {
			f.warns = append(f.warns[:i], f.warns[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) DeleteWarns(_ context.Context, chatID, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.warns[:0]
	removed := 0
	for _, w := range f.warns {
		if w.ChatID == chatID && w.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, w)
	}
	f.warns = kept
	return removed, nil
}

func (f *fakeLedger) InsertBan(_ context.Context, ban *db.Ban) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	ban.ID = f.nextID
	copied := *ban
	f.bans = append(f.bans, &copied)
	return nil
}

func (f *fakeLedger) InsertUnban(_ context.Context, unban *db.Unban) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	unban.ID = f.nextID
	copied := *unban
	f.unbans = append(f.unbans, &copied)
	return nil
}

func (f *fakeLedger) ListBannedWords(_ context.Context, chatID int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.words[chatID]...), nil
}

func (f *fakeLedger) AddBannedWord(_ context.Context, chatID int64, word string, _ int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.words[chatID] {
		if w == word {
			return false, nil
		}
	}
	f.words[chatID] = append(f.words[chatID], word)
	return true, nil
}

func (f *fakeLedger) RemoveBannedWord(_ context.Context, chatID int64, word string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.words[chatID] {
		if w == word {
			f.words[chatID] = append(f.words[chatID][:i], f.words[chatID][i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) Close() error { return nil }

type fakeService struct {
	db       db.Client
	platform *fakePlatform
}

func (s *fakeService) GetBot() *api.BotAPI { return nil }

func (s *fakeService) GetDB() db.Client { return s.db }

func (s *fakeService) GetPlatform() bot.Platform { return s.platform }

var errPlatform = errors.New("platform refused")

type fakePlatform struct {
	mu       sync.Mutex
	admins   map[int64]bool
	banErr   error
	banned   []int64
	unbanned []int64
	muted    []int64
	deleted  []int
	sent     []string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{admins: map[int64]bool{}}
}

func (p *fakePlatform) IsAdmin(_ context.Context, _, userID int64) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.admins[userID], nil
}

func (p *fakePlatform) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, messageID)
	return nil
}

func (p *fakePlatform) BanMember(_ context.Context, _, userID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.banErr != nil {
		return p.banErr
	}
	p.banned = append(p.banned, userID)
	return nil
}

func (p *fakePlatform) UnbanMember(_ context.Context, _, userID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unbanned = append(p.unbanned, userID)
	return nil
}

func (p *fakePlatform) RestrictMember(_ context.Context, _, userID int64, _ time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = append(p.muted, userID)
	return nil
}

func (p *fakePlatform) SendMessage(_ context.Context, _ int64, text string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, text)
	return len(p.sent), nil
}

func (p *fakePlatform) SendMessageWithMarkup(ctx context.Context, chatID int64, text string, _ *api.InlineKeyboardMarkup) (int, error) {
	return p.SendMessage(ctx, chatID, text)
}

func (p *fakePlatform) EditMessage(_ context.Context, _ int64, _ int, _ string, _ *api.InlineKeyboardMarkup) error {
	return nil
}

func (p *fakePlatform) AnswerCallback(_ context.Context, _, _ string) error {
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	notes []string
}

func (n *fakeNotifier) Notify(_ int64, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, text)
}
