package store

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bfix/gnfs/numeric"
	"github.com/bfix/gnfs/relation"
)

func TestRelationStreamRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relations.cbor")

	w, err := CreateRelationStream(path)
	require.NoError(t, err)
	want := []relation.Relation{
		{A: numeric.NewBig(7), B: numeric.NewBig(3), RationalFactors: map[int]int{0: 1}},
		{A: numeric.NewBig(-5), B: numeric.NewBig(2), AlgebraicFactors: map[int]int{1: 2}},
	}
	for _, r := range want {
		require.NoError(t, w.Append(r))
	}
	require.NoError(t, w.Close())

	reader, err := OpenRelationStream(path)
	require.NoError(t, err)
	defer reader.Close()

	got, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		require.Equal(t, 0, want[i].A.Cmp(got[i].A))
		require.Equal(t, 0, want[i].B.Cmp(got[i].B))
	}
}

func TestRelationReaderEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.cbor")
	w, err := CreateRelationStream(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	reader, err := OpenRelationStream(path)
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestCheckpointRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.cbor")
	want := Checkpoint{
		Stage:           "sieve",
		Backend:         numeric.BackendFixed256,
		RationalBound:   100000,
		AlgebraicBound:  300000,
		QuadraticCount:  20,
		RelationsFound:  42,
		RelationsTarget: 500,
		RelationsPath:   "relations.cbor",
	}
	require.NoError(t, SaveCheckpoint(path, want))

	got, err := LoadCheckpoint(path)
	require.NoError(t, err)
	require.Equal(t, want.Stage, got.Stage)
	require.Equal(t, want.Backend, got.Backend)
	require.Equal(t, want.RelationsFound, got.RelationsFound)
}
