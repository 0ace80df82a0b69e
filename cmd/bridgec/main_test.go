package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRenames(t *testing.T) {
	renames, err := parseRenames([]string{"Widget_resize=grow", "do_thing=doThing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Widget_resize": "grow",
		"do_thing":      "doThing",
	}, renames)
}

func TestParseRenamesEmpty(t *testing.T) {
	renames, err := parseRenames(nil)
	require.NoError(t, err)
	assert.Nil(t, renames)
}

func TestParseRenamesInvalid(t *testing.T) {
	for _, pair := range []string{"no-separator", "=grow", "Widget_resize="} {
		_, err := parseRenames([]string{pair})
		assert.Error(t, err, pair)
	}
}
