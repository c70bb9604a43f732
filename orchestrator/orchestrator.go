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

// Package orchestrator sequences the GNFS stages end to end (spec.md
// §4.H): factor-base construction, sieving, linear algebra, and square
// root extraction, with checkpointing and a bounded restart loop around
// the sieve stage (a wider backend after an overflow, a larger relation
// target after a short pass). Linear algebra and square-root extraction
// run once after that loop: an insufficient-rank result with no
// dependencies, or dependencies that yield no factor, is returned to the
// caller without re-entering the sieve.
//
// The control pattern -- run a stage, inspect the sentinel error kind it
// returned, and either escalate a resource (more sieving, a wider
// backend, a fresh CRT prime) or propagate a terminal failure -- mirrors
// the teacher's Director.Factorize, which drives sievers and solvers
// through the same "observe stage outcome, escalate or terminate" loop
// (bfix-gospel/math/factorizer/sac/director.go), generalized here from a
// fixed goroutine topology to an explicit stage sequence with a resumable
// on-disk checkpoint (spec.md §4.H "resumption").
package orchestrator

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/bfix/gnfs/factorbase"
	"github.com/bfix/gnfs/internal/gnferr"
	"github.com/bfix/gnfs/internal/obslog"
	"github.com/bfix/gnfs/linalg"
	"github.com/bfix/gnfs/numeric"
	"github.com/bfix/gnfs/primes"
	"github.com/bfix/gnfs/relation"
	"github.com/bfix/gnfs/sieve"
	"github.com/bfix/gnfs/sqrtfinder"
	"github.com/bfix/gnfs/store"
)

// Config holds the user-facing inputs to a factorization run (spec.md
// §6 "Configuration").
type Config struct {
	N             numeric.BigInt
	Workers       int
	CheckpointDir string // empty disables checkpointing
	MaxRestarts   int    // bound on backend-escalation / more-sieving retries
}

// Progress is a point-in-time snapshot an orchestrator run reports
// through its progress channel (supplemented feature: spec.md's
// expanded scope adds observability the distilled spec didn't specify).
type Progress struct {
	Stage          string
	RelationsFound int
	Target         int
	Backend        numeric.Backend
}

// Orchestrator runs one factorization attempt against Config.N.
type Orchestrator struct {
	cfg      Config
	progress chan<- Progress
}

// New creates an Orchestrator. progress may be nil if the caller doesn't
// want updates.
func New(cfg Config, progress chan<- Progress) *Orchestrator {
	if cfg.MaxRestarts == 0 {
		cfg.MaxRestarts = 5
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	return &Orchestrator{cfg: cfg, progress: progress}
}

func (o *Orchestrator) report(p Progress) {
	if o.progress == nil {
		return
	}
	select {
	case o.progress <- p:
	default:
	}
}

// Run derives a fresh parameter set from Config.N and executes the full
// pipeline, returning one non-trivial factor (spec.md §4.H).
func (o *Orchestrator) Run(ctx context.Context) (numeric.BigInt, error) {
	params := DeriveParameters(o.cfg.N)
	return o.execute(ctx, params, nil)
}

// Resume reloads the checkpoint and relation stream left behind by a
// previous, interrupted Run (or Resume) and continues the pipeline from
// there instead of re-deriving parameters and re-sieving from scratch
// (spec.md §4.H "resumption", spec.md §8's Idempotence property: resuming
// a checkpointed run must reach the same factor a single uninterrupted
// run would). Config.CheckpointDir must be the same directory the prior
// run checkpointed into.
func (o *Orchestrator) Resume(ctx context.Context) (numeric.BigInt, error) {
	log := obslog.Stage("orchestrator")
	if o.cfg.CheckpointDir == "" {
		return numeric.BigInt{}, gnferr.Wrap(gnferr.ErrParameterInfeasible, "no checkpoint directory configured")
	}
	cp, err := store.LoadCheckpoint(o.checkpointPath())
	if err != nil {
		return numeric.BigInt{}, err
	}

	params := DeriveParameters(o.cfg.N)
	params.Backend = cp.Backend
	params.RationalBound = cp.RationalBound
	params.AlgebraicBound = cp.AlgebraicBound
	params.QuadraticCount = cp.QuadraticCount
	params.TargetRelations = cp.RelationsTarget

	var relations []relation.Relation
	if cp.RelationsPath != "" {
		reader, err := store.OpenRelationStream(cp.RelationsPath)
		if err != nil {
			return numeric.BigInt{}, err
		}
		relations, err = reader.ReadAll()
		reader.Close()
		if err != nil {
			return numeric.BigInt{}, err
		}
	}
	log.Info().Str("stage", cp.Stage).Int("relations_found", len(relations)).
		Str("backend", params.Backend.String()).Msg("resuming from checkpoint")
	return o.execute(ctx, params, relations)
}

// execute runs the sieve/linalg/sqrtfinder pipeline starting from params
// and an optional set of relations already on hand (non-nil only when
// called from Resume), persisting every newly found relation and a fresh
// checkpoint after each sieve attempt so a later Resume can pick up from
// exactly this point (spec.md §4.H).
func (o *Orchestrator) execute(ctx context.Context, params Params, preloaded []relation.Relation) (numeric.BigInt, error) {
	log := obslog.Stage("orchestrator")
	log.Info().Int("degree", params.Degree).Str("m", params.M.String()).
		Int64("rational_bound", params.RationalBound).
		Int64("algebraic_bound", params.AlgebraicBound).
		Str("backend", params.Backend.String()).
		Msg("parameters derived")

	rb, ab, qb := factorbase.Build(params.F, factorbase.Bounds{
		RationalBound:  params.RationalBound,
		AlgebraicBound: params.AlgebraicBound,
		QuadraticCount: params.QuadraticCount,
	})
	layout := relation.Layout{
		RationalPrimes:  len(rb.Primes),
		AlgebraicPrimes: len(ab.Entries),
		QuadraticChecks: len(qb.Entries),
	}

	var stream *store.RelationStream
	if o.cfg.CheckpointDir != "" {
		if len(preloaded) == 0 {
			// fresh run (not a Resume): start the relation stream clean so
			// a later Resume never replays an unrelated prior run's data.
			_ = os.Remove(o.relationsPath())
		}
		s, err := store.CreateRelationStream(o.relationsPath())
		if err != nil {
			return numeric.BigInt{}, err
		}
		stream = s
		defer stream.Close()
	}

	relations := append([]relation.Relation(nil), preloaded...)
	for attempt := 0; attempt < o.cfg.MaxRestarts; attempt++ {
		select {
		case <-ctx.Done():
			return numeric.BigInt{}, gnferr.Wrap(gnferr.ErrCancelled, "orchestrator run")
		default:
		}

		o.report(Progress{Stage: "sieve", RelationsFound: len(relations), Target: params.TargetRelations, Backend: params.Backend})

		sieveCfg := sieve.Config{
			F:         params.F,
			M:         params.M,
			Rational:  rb,
			Algebraic: ab,
			Quadratic: qb,
			AMax:      params.AMax,
			BMax:      params.BMax,
			Workers:   o.cfg.Workers,
			Target:    params.TargetRelations,
		}
		found, err := runSieve(ctx, params.Backend, sieveCfg)
		relations = append(relations, found...)
		if stream != nil {
			for _, r := range found {
				_ = stream.Append(r)
			}
		}

		o.checkpoint(params, "sieve", len(relations))

		if err == nil {
			break
		}
		switch {
		case errors.Is(err, gnferr.ErrBackendOverflow):
			params.Backend = numeric.Upgrade(params.Backend)
			log.Warn().Str("backend", params.Backend.String()).Msg("escalating backend after overflow")
			continue
		case errors.Is(err, gnferr.ErrNeedMoreSieving):
			params.TargetRelations += params.TargetRelations / 4
			log.Warn().Int("new_target", params.TargetRelations).Msg("widening sieve target")
			continue
		default:
			return numeric.BigInt{}, err
		}
	}
	if len(relations) < params.TargetRelations {
		return numeric.BigInt{}, gnferr.Wrap(gnferr.ErrParameterInfeasible, "only %d of %d relations after %d attempts", len(relations), params.TargetRelations, o.cfg.MaxRestarts)
	}

	o.report(Progress{Stage: "linalg", RelationsFound: len(relations), Target: params.TargetRelations, Backend: params.Backend})
	vectors := buildVectors(layout, relations, qb)
	dependencies, err := linalg.NullSpace(vectors, 4)
	if err != nil && len(dependencies) == 0 {
		return numeric.BigInt{}, err
	}

	o.report(Progress{Stage: "sqrtfinder", RelationsFound: len(relations), Target: params.TargetRelations, Backend: params.Backend})
	crtPrimes := candidateCRTPrimes(params.AlgebraicBound, params.Degree)
	for _, dep := range dependencies {
		indices := setIndices(dep, len(relations))
		if len(indices) == 0 {
			continue
		}
		rRoot, err := sqrtfinder.RationalSquareRoot(relations, indices, params.M)
		if err != nil {
			continue
		}
		aRoot, err := sqrtfinder.AlgebraicSquareRoot(relations, indices, params.F, crtPrimes)
		if err != nil {
			continue
		}
		if factor, ok := sqrtfinder.RecoverFactor(o.cfg.N, rRoot, aRoot, params.F, params.M); ok {
			log.Info().Str("factor", factor.String()).Msg("factor recovered")
			o.checkpoint(params, "done", len(relations))
			return factor, nil
		}
	}
	return numeric.BigInt{}, gnferr.Wrap(gnferr.ErrNeedMoreSieving, "no dependency yielded a non-trivial factor")
}

func (o *Orchestrator) checkpointPath() string { return o.cfg.CheckpointDir + "/checkpoint.cbor" }
func (o *Orchestrator) relationsPath() string  { return o.cfg.CheckpointDir + "/relations.cbor" }

func (o *Orchestrator) checkpoint(p Params, stage string, found int) {
	if o.cfg.CheckpointDir == "" {
		return
	}
	_ = store.SaveCheckpoint(o.checkpointPath(), store.Checkpoint{
		Stage:           stage,
		Backend:         p.Backend,
		RationalBound:   p.RationalBound,
		AlgebraicBound:  p.AlgebraicBound,
		QuadraticCount:  p.QuadraticCount,
		RelationsFound:  found,
		RelationsTarget: p.TargetRelations,
		RelationsPath:   o.relationsPath(),
		SavedAt:         time.Now(),
	})
}

// runSieve dispatches to the generic sieve engine instantiated for the
// given backend (spec.md §4.A: the backend is a runtime choice, but
// Engine[T] is compiled generically, so dispatch is a type switch over
// the small, fixed set of backends).
func runSieve(ctx context.Context, backend numeric.Backend, cfg sieve.Config) ([]relation.Relation, error) {
	switch backend {
	case numeric.BackendInt64:
		return sieve.NewEngine[numeric.Int64](cfg, numeric.I64FromBig).Run(ctx)
	case numeric.BackendInt128:
		return sieve.NewEngine[numeric.Int128](cfg, numeric.I128FromBig).Run(ctx)
	case numeric.BackendFixed256:
		return sieve.NewEngine[numeric.Fixed256](cfg, numeric.F256FromBig).Run(ctx)
	case numeric.BackendFixed512:
		return sieve.NewEngine[numeric.Fixed512](cfg, numeric.F512FromBig).Run(ctx)
	default:
		return sieve.NewEngine[numeric.BigInt](cfg, numeric.NewBigFromBig).Run(ctx)
	}
}

// buildVectors computes each relation's GF(2) exponent vector, including
// the quadratic-character bits against qb (spec.md §4.D/§4.F).
func buildVectors(layout relation.Layout, relations []relation.Relation, qb factorbase.QuadraticBase) []relation.ExponentVector {
	vectors := make([]relation.ExponentVector, len(relations))
	for i, r := range relations {
		bits := make([]bool, len(qb.Entries))
		for j, e := range qb.Entries {
			val := r.A.Sub(r.B.Mul(e.R)).Mod(e.P)
			bits[j] = primes.Legendre(val, e.P) == -1
		}
		vectors[i] = relation.NewExponentVector(layout, r, bits)
	}
	return vectors
}

// setIndices returns the relation indices marked in a dependency bitset.
func setIndices(dep interface{ Test(uint) bool }, n int) []int {
	var out []int
	for i := 0; i < n; i++ {
		if dep.Test(uint(i)) {
			out = append(out, i)
		}
	}
	return out
}

// candidateCRTPrimes returns a handful of primes above algebraicBound for
// the Couveignes square-root stage to try (spec.md §9 Open Question:
// "bounded scan for a usable CRT prime").
func candidateCRTPrimes(algebraicBound int64, degree int) []numeric.BigInt {
	var out []numeric.BigInt
	p := numeric.NewBig(algebraicBound)
	for len(out) < sqrtfinder.MaxSignRetries {
		p = primes.NextPrime(p)
		out = append(out, p)
	}
	_ = degree // reserved for a future degree-aware prime filter
	return out
}
