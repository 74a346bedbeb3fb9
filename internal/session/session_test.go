package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestSessionValues(t *testing.T) {
	s := newSession("abc")
	assert.False(t, s.Modified())

	require.NoError(t, s.Set("user", testUser{ID: 7, Name: "Ann"}))
	assert.True(t, s.Modified())
	assert.True(t, s.Has("user"))

	var u testUser
	ok, err := s.Get("user", &u)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, testUser{ID: 7, Name: "Ann"}, u)

	ok, err = s.Get("missing", &u)
	require.NoError(t, err)
	assert.False(t, ok)

	var wrong int
	ok, err = s.Get("user", &wrong)
	assert.True(t, ok)
	assert.Error(t, err)

	s.Delete("user")
	assert.False(t, s.Has("user"))
}

func TestSessionSetUnencodable(t *testing.T) {
	s := newSession("abc")
	assert.Error(t, s.Set("ch", make(chan int)))
	assert.False(t, s.Modified())
}

func TestSessionFlash(t *testing.T) {
	s := newSession("abc")

	s.SetFlash(FlashSuccess, "Listing Created Successfully")
	s.SetFlash(FlashError, "first")
	s.SetFlash(FlashError, "You are not authorized to delete this listing")

	assert.Equal(t, "Listing Created Successfully", s.Flash(FlashSuccess))
	assert.Empty(t, s.Flash(FlashSuccess))

	assert.Equal(t, "You are not authorized to delete this listing", s.Flash(FlashError))
	assert.Empty(t, s.Flash(FlashError))
}

func TestSessionClear(t *testing.T) {
	s := newSession("abc")
	s.Clear()
	assert.False(t, s.Modified())

	require.NoError(t, s.Set("a", 1))
	s.Clear()
	assert.False(t, s.Has("a"))
	assert.True(t, s.Modified())
}

func TestSessionEncodeDecode(t *testing.T) {
	s := newSession("abc")
	require.NoError(t, s.Set("user", testUser{ID: 1, Name: "Bob"}))
	s.SetFlash(FlashSuccess, "hi")

	data, err := s.encode()
	require.NoError(t, err)

	restored, err := decode("abc", data)
	require.NoError(t, err)
	assert.False(t, restored.Modified())
	assert.Equal(t, "hi", restored.Flash(FlashSuccess))

	var u testUser
	ok, err := restored.Get("user", &u)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bob", u.Name)

	_, err = decode("abc", []byte("not json"))
	assert.Error(t, err)

	empty, err := decode("abc", []byte("null"))
	require.NoError(t, err)
	assert.NotNil(t, empty.values)
}
