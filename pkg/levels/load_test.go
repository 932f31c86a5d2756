package levels

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(names ...string) []Level {
	catalog := make([]Level, 0, len(names))
	for _, name := range names {
		catalog = append(catalog, Level{Name: name, ContentPath: "scenes/" + name})
	}
	return catalog
}

func states(levels []*Level) map[string]State {
	out := make(map[string]State, len(levels))
	for _, l := range levels {
		out[l.Name] = l.State
	}
	return out
}

func TestLoadProgress(t *testing.T) {
	type args struct {
		saved   *SavedProgress
		current string
	}
	tests := []struct {
		name        string
		catalog     []Level
		args        args
		wantStates  map[string]State
		wantResults map[string]Result
		wantCurrent string
		wantErr     error
	}{
		{
			name:    "first level passed advances to second",
			catalog: testCatalog("A", "B", "C"),
			args: args{
				saved:   NewSavedProgress(ProgressEntry{Name: "A", Result: ResultHigh}),
				current: "A",
			},
			wantStates:  map[string]State{"A": StateUnlocked, "B": StateUnlocked, "C": StateLocked},
			wantResults: map[string]Result{"A": ResultHigh, "B": ResultNotPassed, "C": ResultNotPassed},
			wantCurrent: "B",
		},
		{
			name:    "first level not passed stays current",
			catalog: testCatalog("A", "B", "C"),
			args: args{
				saved:   NewSavedProgress(ProgressEntry{Name: "A", Result: ResultNotPassed}),
				current: "A",
			},
			wantStates:  map[string]State{"A": StateUnlocked, "B": StateLocked, "C": StateLocked},
			wantResults: map[string]Result{"A": ResultNotPassed},
			wantCurrent: "A",
		},
		{
			name:    "last saved not passed opens no frontier",
			catalog: testCatalog("A", "B", "C"),
			args: args{
				saved: NewSavedProgress(
					ProgressEntry{Name: "A", Result: ResultLow},
					ProgressEntry{Name: "B", Result: ResultNotPassed},
				),
				current: "B",
			},
			wantStates:  map[string]State{"A": StateUnlocked, "B": StateUnlocked, "C": StateLocked},
			wantResults: map[string]Result{"A": ResultLow, "B": ResultNotPassed},
			wantCurrent: "B",
		},
		{
			name:    "every level saved",
			catalog: testCatalog("A", "B", "C"),
			args: args{
				saved: NewSavedProgress(
					ProgressEntry{Name: "A", Result: ResultHigh},
					ProgressEntry{Name: "B", Result: ResultMiddle},
					ProgressEntry{Name: "C", Result: ResultLow},
				),
				current: "C",
			},
			wantStates:  map[string]State{"A": StateUnlocked, "B": StateUnlocked, "C": StateUnlocked},
			wantResults: map[string]Result{"A": ResultHigh, "B": ResultMiddle, "C": ResultLow},
			wantCurrent: "C",
		},
		{
			name:    "single level catalog keeps the passed level current",
			catalog: testCatalog("A"),
			args: args{
				saved:   NewSavedProgress(ProgressEntry{Name: "A", Result: ResultHigh}),
				current: "A",
			},
			wantStates:  map[string]State{"A": StateUnlocked},
			wantResults: map[string]Result{"A": ResultHigh},
			wantCurrent: "A",
		},
		{
			name:    "unknown saved levels are ignored",
			catalog: testCatalog("A", "B", "C"),
			args: args{
				saved: NewSavedProgress(
					ProgressEntry{Name: "A", Result: ResultHigh},
					ProgressEntry{Name: "X", Result: ResultLow},
				),
				current: "A",
			},
			wantStates:  map[string]State{"A": StateUnlocked, "B": StateLocked, "C": StateLocked},
			wantResults: map[string]Result{"A": ResultHigh},
			wantCurrent: "A",
		},
		{
			name:    "unknown current level",
			catalog: testCatalog("A", "B"),
			args: args{
				saved: NewSavedProgress(
					ProgressEntry{Name: "A", Result: ResultHigh},
					ProgressEntry{Name: "B", Result: ResultHigh},
				),
				current: "Z",
			},
			wantStates:  map[string]State{"A": StateUnlocked, "B": StateUnlocked},
			wantResults: map[string]Result{"A": ResultHigh, "B": ResultHigh},
			wantErr:     ErrMissingCurrentLevel,
		},
		{
			name:    "empty current level",
			catalog: testCatalog("A", "B"),
			args: args{
				saved: NewSavedProgress(ProgressEntry{Name: "A", Result: ResultHigh}),
			},
			wantStates:  map[string]State{"A": StateUnlocked, "B": StateUnlocked},
			wantResults: map[string]Result{"A": ResultHigh},
			wantErr:     ErrMissingCurrentLevel,
		},
		{
			name:    "empty catalog",
			args:    args{saved: NewSavedProgress(), current: "A"},
			wantErr: ErrEmptyCatalog,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, current, err := LoadProgress(tt.args.saved, tt.args.current, tt.catalog)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got error %v", err)
				assert.Nil(t, current)
			} else {
				require.NoError(t, err)
				require.NotNil(t, current)
				assert.Equal(t, tt.wantCurrent, current.Name)
			}

			require.Len(t, got, len(tt.catalog))
			if len(tt.catalog) > 0 {
				assert.Equal(t, tt.wantStates, states(got))
			}
			for name, want := range tt.wantResults {
				assert.Equal(t, want, FindByName(got, name).Result, "result of %s", name)
			}
			for i, l := range got {
				assert.Equal(t, tt.catalog[i].Name, l.Name)
				assert.Equal(t, tt.catalog[i].ContentPath, l.ContentPath)
			}
		})
	}
}

func TestLoadProgress_UnlocksSavedPlusFrontier(t *testing.T) {
	names := []string{"L1", "L2", "L3", "L4", "L5"}
	catalog := testCatalog(names...)

	for k := 1; k <= len(names); k++ {
		for _, last := range []Result{ResultNotPassed, ResultLow, ResultHigh} {
			t.Run(fmt.Sprintf("k=%d last=%s", k, last), func(t *testing.T) {
				saved := NewSavedProgress()
				for i := 0; i < k-1; i++ {
					saved.Set(names[i], ResultMiddle)
				}
				saved.Set(names[k-1], last)

				got, _, err := LoadProgress(saved, names[k-1], catalog)
				require.NoError(t, err)

				unlocked := 0
				for _, l := range got {
					if l.State == StateUnlocked {
						unlocked++
					}
				}

				want := k
				if last != ResultNotPassed && k < len(names) {
					want = k + 1
				}
				assert.Equal(t, want, unlocked)
			})
		}
	}
}

func TestLoadProgress_DoesNotAliasCatalog(t *testing.T) {
	catalog := testCatalog("A", "B")
	got, _, err := LoadProgress(NewSavedProgress(ProgressEntry{Name: "A", Result: ResultLow}), "A", catalog)
	require.NoError(t, err)

	got[0].Name = "changed"
	assert.Equal(t, "A", catalog[0].Name)
	assert.Equal(t, StateLocked, catalog[1].State)
}
