package handlers

import (
	"sync"

	"github.com/pborman/uuid"
)

type menuState string

const (
	stateIdle               menuState = "idle"
	stateAwaitingAddWord    menuState = "awaiting_add_word"
	stateAwaitingRemoveWord menuState = "awaiting_remove_word"
)

// menuSession is the per-chat state of an open settings menu. At most one
// session per chat; opening the menu again resets it.
type menuSession struct {
	state            menuState
	pendingThreshold int
	captureToken     string
	messageID        int
}

// sessionStore guards all menu sessions with a single mutex. Methods never
// call out to storage or the platform while holding it.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*menuSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: map[int64]*menuSession{}}
}

func (s *sessionStore) open(chatID int64, threshold, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = &menuSession{
		state:            stateIdle,
		pendingThreshold: threshold,
		messageID:        messageID,
	}
}

func (s *sessionStore) close(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

func (s *sessionStore) snapshot(chatID int64) (menuSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		return menuSession{}, false
	}
	return *sess, true
}

func (s *sessionStore) setPendingThreshold(chatID int64, threshold int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[chatID]; ok {
		sess.pendingThreshold = threshold
	}
}

func (s *sessionStore) setMessageID(chatID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[chatID]; ok {
		sess.messageID = messageID
	}
}

// armCapture puts the session into a capture state and returns the token
// identifying this particular capture.
func (s *sessionStore) armCapture(chatID int64, state menuState) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &menuSession{pendingThreshold: 0}
		s.sessions[chatID] = sess
	}
	sess.state = state
	sess.captureToken = uuid.New()
	return sess.captureToken
}

// consumeCapture atomically takes the armed capture, if any, and returns the
// session to idle. Exactly one caller can win a given token.
func (s *sessionStore) consumeCapture(chatID int64) (menuState, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok || sess.captureToken == "" {
		return stateIdle, "", false
	}
	state, token := sess.state, sess.captureToken
	sess.state = stateIdle
	sess.captureToken = ""
	return state, token, true
}

func (s *sessionStore) disarm(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[chatID]; ok {
		sess.state = stateIdle
		sess.captureToken = ""
	}
}
