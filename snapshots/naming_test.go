package snapshot

import (
	"testing"

	"github.com/KazanKK/dbss/internal/fault"
	"github.com/stretchr/testify/assert"
)

var sampleNames = []string{"CXSCORE", "IXDOC_PXQUOTE_CRU4", "a", "db.with.dots", "X_dbss", ""}
var sampleSuffixes = []string{"_dbss", "_snap", "$ss"}

func TestNamingRoundTrip(t *testing.T) {
	for _, suffix := range sampleSuffixes {
		for _, name := range sampleNames {
			snap := SnapshotName(name, suffix)
			assert.Equal(t, name, OriginalName(snap, suffix), "round trip of %q with %q", name, suffix)
			assert.True(t, IsSnapshot(snap, suffix), "%q should be a snapshot", snap)
		}
	}
}

func TestIsSnapshotMatchesSubstring(t *testing.T) {
	assert.True(t, IsSnapshot("CXSCORE_dbss", "_dbss"))
	assert.True(t, IsSnapshot("FOO_dbss_BAR", "_dbss"))
	assert.False(t, IsSnapshot("CXSCORE", "_dbss"))
	assert.False(t, IsSnapshot("CXSCORE", ""))
}

func TestOriginalNameShorterThanSuffix(t *testing.T) {
	assert.Equal(t, "", OriginalName("ab", "_dbss"))
}

func TestNewSnapshotDB(t *testing.T) {
	snap, err := NewSnapshotDB("CXSCORE_dbss", "_dbss")
	assert.NoError(t, err)
	assert.Equal(t, "CXSCORE_dbss", snap.String())
	assert.True(t, snap.Valid())
	assert.False(t, SnapshotDB{}.Valid())

	_, err = NewSnapshotDB("CXSCORE", "_dbss")
	assert.Error(t, err)
	assert.Equal(t, 84, fault.ExitCode(err))
	assert.True(t, fault.IsKind(err, fault.Validation))
	assert.Equal(t, "Request to drop CXSCORE, only snapshots may be dropped.", err.Error())
}
