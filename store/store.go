//----------------------------------------------------------------------
// This file is part of gnfs.
//
// gnfs is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gnfs is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// SPDX-License-Identifier: AGPL-3.0-or-later
//----------------------------------------------------------------------

// Package store persists relations and run checkpoints to disk so a
// sieve run can resume after a restart instead of re-sieving from
// scratch (spec.md §6 "External interfaces" and the supplemented
// checkpoint feature this module's expanded spec adds). The teacher has
// no on-disk persistence layer of its own to ground this against -- its
// factorizers run to completion in memory -- so the encoding choice is
// drawn from the rest of the retrieved pack: github.com/fxamacker/cbor/v2
// gives a compact, self-describing binary encoding well suited to a
// relation stream that is appended to continuously and replayed
// sequentially, without requiring a schema migration story the way a
// fixed-width binary format would.
package store

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/bfix/gnfs/internal/gnferr"
	"github.com/bfix/gnfs/internal/obslog"
	"github.com/bfix/gnfs/numeric"
	"github.com/bfix/gnfs/relation"
)

// RelationStream appends relations to a CBOR stream, one record per
// Append call, so a crashed or interrupted sieve run can be replayed
// instead of re-sieved (spec.md §4.H "resumption").
type RelationStream struct {
	f   *os.File
	enc *cbor.Encoder
}

// CreateRelationStream opens path for appending (creating it if absent)
// and wraps it with a CBOR stream encoder.
func CreateRelationStream(path string) (*RelationStream, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, gnferr.Wrap(err, "open relation stream %s", path)
	}
	return &RelationStream{f: f, enc: cbor.NewEncoder(f)}, nil
}

// Append encodes one relation onto the stream.
func (s *RelationStream) Append(r relation.Relation) error {
	if err := s.enc.Encode(r); err != nil {
		return gnferr.Wrap(err, "append relation %s", r)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (s *RelationStream) Close() error {
	return s.f.Close()
}

// RelationReader replays a relation stream written by RelationStream.
type RelationReader struct {
	f   *os.File
	dec *cbor.Decoder
}

// OpenRelationStream opens an existing relation stream for sequential
// replay.
func OpenRelationStream(path string) (*RelationReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, gnferr.Wrap(err, "open relation stream %s", path)
	}
	return &RelationReader{f: f, dec: cbor.NewDecoder(f)}, nil
}

// Next decodes the next relation, returning io.EOF once the stream is
// exhausted.
func (r *RelationReader) Next() (relation.Relation, error) {
	var rel relation.Relation
	if err := r.dec.Decode(&rel); err != nil {
		if errors.Is(err, io.EOF) {
			return relation.Relation{}, io.EOF
		}
		return relation.Relation{}, gnferr.Wrap(err, "decode relation")
	}
	return rel, nil
}

// ReadAll replays every relation in the stream into a slice, for the
// common case of loading a completed sieve pass back into memory.
func (r *RelationReader) ReadAll() ([]relation.Relation, error) {
	var out []relation.Relation
	for {
		rel, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
}

// Close closes the underlying file.
func (r *RelationReader) Close() error {
	return r.f.Close()
}

// Checkpoint snapshots enough orchestrator state to resume a run without
// restarting from scratch (spec.md §4.H, supplemented feature).
type Checkpoint struct {
	Stage           string         `cbor:"stage"`
	Backend         numeric.Backend `cbor:"backend"`
	RationalBound   int64          `cbor:"rational_bound"`
	AlgebraicBound  int64          `cbor:"algebraic_bound"`
	QuadraticCount  int            `cbor:"quadratic_count"`
	RelationsFound  int            `cbor:"relations_found"`
	RelationsTarget int            `cbor:"relations_target"`
	RelationsPath   string         `cbor:"relations_path"`
	SavedAt         time.Time      `cbor:"saved_at"`
}

// SaveCheckpoint writes c to path, overwriting any previous checkpoint.
func SaveCheckpoint(path string, c Checkpoint) error {
	log := obslog.Stage("store")
	f, err := os.Create(path)
	if err != nil {
		return gnferr.Wrap(err, "create checkpoint %s", path)
	}
	defer f.Close()
	if err := cbor.NewEncoder(f).Encode(c); err != nil {
		return gnferr.Wrap(err, "encode checkpoint")
	}
	log.Info().Str("stage", c.Stage).Int("relations_found", c.RelationsFound).Msg("checkpoint saved")
	return nil
}

// LoadCheckpoint reads a checkpoint previously written by SaveCheckpoint.
func LoadCheckpoint(path string) (Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return Checkpoint{}, gnferr.Wrap(err, "open checkpoint %s", path)
	}
	defer f.Close()
	var c Checkpoint
	if err := cbor.NewDecoder(f).Decode(&c); err != nil {
		return Checkpoint{}, gnferr.Wrap(err, "decode checkpoint")
	}
	return c, nil
}
