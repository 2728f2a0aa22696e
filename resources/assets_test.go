package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedResources(t *testing.T) {
	picture, err := Picture(RevealPicture)
	require.NoError(t, err)
	assert.Contains(t, string(picture.Content()), "<svg")

	logo := MustLogo(AppLogo)
	assert.Equal(t, "logo/"+AppLogo, logo.Name())

	again, err := Picture(RevealPicture)
	require.NoError(t, err)
	assert.Same(t, picture, again)
}

func TestMissingResource(t *testing.T) {
	_, err := Logo("missing.svg")
	assert.Error(t, err)
	assert.Panics(t, func() { MustPicture("missing.svg") })
}
