package session

import (
	"encoding/json"
	"fmt"
)

// Flash message categories rendered by the message partial.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

const flashPrefix = "_flash."

// Session is the state of one visitor. It is not safe for concurrent use;
// each request owns its copy.
type Session struct {
	id        string
	values    map[string]json.RawMessage
	dirty     bool
	destroyed bool
}

func newSession(id string) *Session {
	return &Session{
		id:     id,
		values: make(map[string]json.RawMessage),
	}
}

// ID returns the session id carried by the cookie.
func (s *Session) ID() string {
	return s.id
}

// Set stores value under key. The value must be JSON-encodable.
func (s *Session) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session value %q: %w", key, err)
	}

	s.values[key] = raw
	s.dirty = true

	return nil
}

// Get decodes the value stored under key into dst and reports whether the
// key was present.
func (s *Session) Get(key string, dst any) (bool, error) {
	raw, ok := s.values[key]
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode session value %q: %w", key, err)
	}

	return true, nil
}

// Has reports whether key is set.
func (s *Session) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Delete removes key.
func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}

	delete(s.values, key)
	s.dirty = true
}

// Clear removes every key.
func (s *Session) Clear() {
	if len(s.values) == 0 {
		return
	}

	s.values = make(map[string]json.RawMessage)
	s.dirty = true
}

// SetFlash stores a message shown once on the next rendered page. A later
// message in the same category replaces an earlier one.
func (s *Session) SetFlash(category, message string) {
	// Marshalling a string cannot fail.
	_ = s.Set(flashPrefix+category, message)
}

// Flash returns the pending message for category and removes it. It
// returns the empty string when there is none.
func (s *Session) Flash(category string) string {
	var message string

	ok, err := s.Get(flashPrefix+category, &message)
	if !ok {
		return ""
	}

	s.Delete(flashPrefix + category)

	if err != nil {
		return ""
	}

	return message
}

// Modified reports whether the session changed since it was loaded.
func (s *Session) Modified() bool {
	return s.dirty
}

func (s *Session) encode() ([]byte, error) {
	return json.Marshal(s.values)
}

func decode(id string, data []byte) (*Session, error) {
	s := newSession(id)

	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	if s.values == nil {
		s.values = make(map[string]json.RawMessage)
	}

	return s, nil
}
