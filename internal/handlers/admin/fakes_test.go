package handlers

import (
	"context"
	"sync"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/tecsopro/tecsobot/internal/db"
)

type fakeStore struct {
	mu       sync.Mutex
	settings map[int64]*db.Settings
	words    map[int64][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		settings: map[int64]*db.Settings{},
		words:    map[int64][]string{},
	}
}

func (f *fakeStore) GetSettings(_ context.Context, chatID int64) (*db.Settings, error) {
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

func (f *fakeStore) SetWarnThreshold(_ context.Context, chatID int64, threshold int) error {
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

func (f *fakeStore) SetLogChatID(_ context.Context, chatID int64, logChatID *int64) error {
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

func (f *fakeStore) ListBannedWords(_ context.Context, chatID int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.words[chatID]...), nil
}

func (f *fakeStore) AddBannedWord(_ context.Context, chatID int64, word string, _ int64) (bool, error) {
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

func (f *fakeStore) RemoveBannedWord(_ context.Context, chatID int64, word string) (bool, error) {
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

type fakePlatform struct {
	mu     sync.Mutex
	admins map[int64]bool
	sent   []string
	edits  []string
	nextID int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{admins: map[int64]bool{}}
}

func (p *fakePlatform) IsAdmin(_ context.Context, _, userID int64) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.admins[userID], nil
}

func (p *fakePlatform) DeleteMessage(_ context.Context, _ int64, _ int) error { return nil }

func (p *fakePlatform) BanMember(_ context.Context, _, _ int64) error { return nil }

func (p *fakePlatform) UnbanMember(_ context.Context, _, _ int64) error { return nil }

func (p *fakePlatform) RestrictMember(_ context.Context, _, _ int64, _ time.Time) error { return nil }

func (p *fakePlatform) SendMessage(_ context.Context, _ int64, text string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, text)
	p.nextID++
	return p.nextID, nil
}

func (p *fakePlatform) SendMessageWithMarkup(ctx context.Context, chatID int64, text string, _ *api.InlineKeyboardMarkup) (int, error) {
	return p.SendMessage(ctx, chatID, text)
}

func (p *fakePlatform) EditMessage(_ context.Context, _ int64, _ int, text string, _ *api.InlineKeyboardMarkup) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.edits = append(p.edits, text)
	return nil
}

func (p *fakePlatform) AnswerCallback(_ context.Context, _, _ string) error { return nil }

type fakeNotifier struct {
	mu    sync.Mutex
	notes []string
}

func (n *fakeNotifier) Notify(_ int64, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, text)
}

func newTestAdmin() (*Admin, *fakeStore, *fakePlatform, *fakeNotifier) {
	store := newFakeStore()
	platform := newFakePlatform()
	notifier := &fakeNotifier{}
	a := &Admin{
		platform: platform,
		store:    store,
		notifier: notifier,
		sessions: newSessionStore(),
		lang:     "en",
	}
	return a, store, platform, notifier
}
