package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeSlug(t *testing.T) {
	assert.Equal(t, "mira-q-stone", MakeSlug("Mira Q. Stone"))
	assert.Equal(t, "ink-wash", MakeSlug("  ink__wash  "))
	assert.Equal(t, "artist", MakeSlug("***"))
	assert.Equal(t, "", Slugify("***"))
	assert.Equal(t, "jo", Slugify("Jo"))
}

func TestProfileSlug(t *testing.T) {
	s, err := ProfileSlug("Mira Stone", 32)
	require.NoError(t, err)
	assert.Equal(t, "mira-stone-32", s)
	assert.Equal(t, "https://artmarket.example.com/artists/mira-stone-32", BuildPublicURL(s))

	_, err = ProfileSlug("Mira", 0)
	assert.Error(t, err)
}
