package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nekogravitycat/roominglist-verifier/internal/store"
	"github.com/nekogravitycat/roominglist-verifier/internal/store/storetest"
)

func TestVisibleRoomingListsSearch(t *testing.T) {
	s := storetest.Sample(t)

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"Partial Term", "Acc", []string{"ACL Executive Accommodations", "Ultra DJ Accommodations"}},
		{"Case Insensitive", "hOuSiNg", []string{"ACL Artist Housing", "Ultra Staff Housing"}},
		{"Inner Space Is Literal", "dj acc", []string{"Ultra DJ Accommodations"}},
		{"Leading Space Matches Word Boundary", " housing", []string{"ACL Artist Housing", "Ultra Staff Housing"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := VisibleRoomingLists(s, tt.search, 0)
			assert.True(t, r.HasRun())
			assert.False(t, r.NoResults())
			assert.Equal(t, tt.want, r.Names())
		})
	}
}

func TestVisibleRoomingListsWhitespaceIsLiteral(t *testing.T) {
	s := storetest.Sample(t)

	for _, term := range []string{"Accommodations ", "   ", "\t"} {
		r := VisibleRoomingLists(s, term, 0)
		assert.True(t, r.HasRun(), "term %q", term)
		assert.True(t, r.NoResults(), "term %q", term)
	}
}

func TestVisibleRoomingListsNoResults(t *testing.T) {
	r := VisibleRoomingLists(storetest.Sample(t), "xyz", 0)
	assert.True(t, r.HasRun())
	assert.True(t, r.NoResults())
	assert.NotNil(t, r.Items())
	assert.Empty(t, r.Items())
}

func TestResultZeroValueHasNotRun(t *testing.T) {
	var r Result
	assert.False(t, r.HasRun())
	assert.False(t, r.NoResults())
	assert.Nil(t, r.Items())

	assert.True(t, Ran(nil).NoResults())
}

func TestVisibleRoomingListsStatus(t *testing.T) {
	s := storetest.Sample(t)

	r := VisibleRoomingLists(s, "", store.NewStatusSet(store.StatusCancelled))
	assert.Equal(t, []string{"Ultra Staff Housing"}, r.Names())
	for _, rl := range r.Items() {
		assert.Equal(t, store.StatusCancelled, rl.Status)
	}

	r = VisibleRoomingLists(s, "acl", store.NewStatusSet(store.StatusActive))
	assert.Equal(t, []string{"ACL Executive Accommodations"}, r.Names())

	r = VisibleRoomingLists(s, "dj", store.NewStatusSet(store.StatusClosed, store.StatusCancelled))
	assert.True(t, r.NoResults())
}

func TestIdentityLaw(t *testing.T) {
	s := storetest.Sample(t)
	r := VisibleRoomingLists(s, "", 0)
	assert.Equal(t, s.RoomingLists(), r.Items())

	empty := storetest.MustLoad(t, storetest.WithBookings(0))
	r = VisibleRoomingLists(empty, "", 0)
	assert.True(t, r.NoResults())
}

func allSets() []store.StatusSet {
	var out []store.StatusSet
	for v := 0; v < 1<<len(store.AllStatuses); v++ {
		var set store.StatusSet
		for i, st := range store.AllStatuses {
			if v&(1<<i) != 0 {
				set = set.With(st)
			}
		}
		out = append(out, set)
	}
	return out
}

func TestMonotonicity(t *testing.T) {
	s := storetest.Sample(t)
	terms := []string{"", "a", "ac", "acl", "acl e", "acl ex", "acl exz"}

	t.Run("Adding A Status Never Shrinks", func(t *testing.T) {
		for _, term := range terms {
			for _, set := range allSets() {
				if set.IsEmpty() {
					// the empty set is the identity filter, not "nothing accepted"
					continue
				}
				before := VisibleRoomingLists(s, term, set).Names()
				for _, st := range store.AllStatuses {
					after := VisibleRoomingLists(s, term, set.With(st)).Names()
					assert.Subset(t, after, before, "term %q set %s + %s", term, set, st)
				}
			}
		}
	})

	t.Run("Narrowing The Term Never Grows", func(t *testing.T) {
		for _, set := range allSets() {
			for i := 1; i < len(terms); i++ {
				wider := VisibleRoomingLists(s, terms[i-1], set).Names()
				narrower := VisibleRoomingLists(s, terms[i], set).Names()
				assert.Subset(t, wider, narrower, "%q -> %q with %s", terms[i-1], terms[i], set)
			}
		}
	})

	t.Run("Search And Filter Never Grows", func(t *testing.T) {
		for _, term := range terms {
			searchOnly := VisibleRoomingLists(s, term, 0).Names()
			for _, set := range allSets() {
				assert.Subset(t, searchOnly, VisibleRoomingLists(s, term, set).Names())
			}
		}
	})
}

func TestMatchesSearch(t *testing.T) {
	assert.True(t, MatchesSearch("Ultra DJ Accommodations", "dj acc"))
	assert.True(t, MatchesSearch("anything", ""))
	assert.False(t, MatchesSearch("anything", " "))
	assert.False(t, MatchesSearch("Ultra DJ Accommodations", " ultra"))
	assert.False(t, MatchesSearch("ACL Artist Housing", "Acc"))
}
