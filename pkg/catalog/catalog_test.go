package catalog

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cbodonnell/cardquest/pkg/levels"
	"github.com/cbodonnell/cardquest/pkg/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []levels.Level{
		{Name: "meadow", ContentPath: "meadow.scene"},
		{Name: "forest", ContentPath: "forest.scene"},
		{Name: "castle", ContentPath: "castle.scene"},
	}, c.LevelList())
	assert.Equal(t, 2, c.Arity())
	assert.Equal(t, 4, c.Cards.Pairs)

	opts := c.MatcherOptions()
	assert.Equal(t, 3*time.Second, opts.Timeout)
	assert.Equal(t, 700*time.Millisecond, opts.MismatchDelay)
	assert.Equal(t, time.Duration(0), opts.HideDelay)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "no levels",
			doc:     "levels: []\ncards: {faces: [a], pairs: 1}\n",
			wantErr: "levels list is required",
		},
		{
			name:    "duplicate level",
			doc:     "levels: [{name: a, content: a}, {name: a, content: b}]\ncards: {faces: [a], pairs: 1}\n",
			wantErr: "duplicate name a",
		},
		{
			name:    "missing content",
			doc:     "levels: [{name: a}]\ncards: {faces: [a], pairs: 1}\n",
			wantErr: "content is required",
		},
		{
			name:    "bad arity",
			doc:     "levels: [{name: a, content: a}]\ncards: {faces: [a], pairs: 1, arity: 1}\n",
			wantErr: "arity must be at least 2",
		},
		{
			name:    "no faces",
			doc:     "levels: [{name: a, content: a}]\ncards: {pairs: 1}\n",
			wantErr: "faces is required",
		},
		{
			name:    "unknown field",
			doc:     "levels: [{name: a, content: a, lock: true}]\ncards: {faces: [a], pairs: 1}\n",
			wantErr: "field lock not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCatalog_DefaultArity(t *testing.T) {
	c, err := Parse(strings.NewReader("levels: [{name: a, content: a}]\ncards: {faces: [x], pairs: 2}\n"))
	require.NoError(t, err)
	assert.Equal(t, match.DefaultArity, c.Arity())
}
