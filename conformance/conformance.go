//go:build !ios && !android && (amd64 || arm64)

// Package conformance checks an implementation of the C surface against the
// documented ownership contract. Scenarios only use the documented call
// sequences, so a correct library never faults while running them; each
// scenario also verifies that nothing it created is left alive.
package conformance

import (
	"errors"
	"fmt"

	"github.com/obinnaokechukwu/ffboundary"
	"github.com/obinnaokechukwu/ffboundary/abi"
	"go.uber.org/zap"
)

// ErrUnsupported is returned by a scenario whose symbols are not bound.
var ErrUnsupported = errors.New("conformance: required symbol not available")

// Scenario is one documented call sequence.
type Scenario struct {
	Name string
	Run  func(t *abi.Table) error
}

// Result is the outcome of one scenario.
type Result struct {
	Name    string
	Err     error
	Skipped bool
}

// Passed returns true if the scenario ran and succeeded.
func (r Result) Passed() bool {
	return r.Err == nil && !r.Skipped
}

// Scenarios returns every scenario in a stable order.
func Scenarios() []Scenario {
	return []Scenario{
		{"scalar_transform", scalarTransform},
		{"sequence_by_value_contract", sequenceByValueContract},
		{"sequence_pointer_contract", sequencePointerContract},
		{"sequence_reductions_agree", sequenceReductionsAgree},
		{"sequence_release_isolation", sequenceReleaseIsolation},
		{"pair_make_fill", pairMakeFill},
		{"object_lifecycle", objectLifecycle},
		{"object_nullable_read", objectNullableRead},
		{"object_repoint", objectRepoint},
		{"produce_value", produceValue},
		{"produce_object", produceObject},
		{"produce_object_nullable", produceObjectNullable},
	}
}

// Run executes every scenario against t and returns one result per scenario.
// A scenario that faults is reported as failed with the recovered value.
func Run(t *abi.Table, logger *zap.Logger) []Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	var results []Result
	for _, sc := range Scenarios() {
		res := runOne(t, sc)
		switch {
		case res.Skipped:
			logger.Info("scenario skipped", zap.String("scenario", sc.Name), zap.Error(res.Err))
		case res.Err != nil:
			logger.Error("scenario failed", zap.String("scenario", sc.Name), zap.Error(res.Err))
		default:
			logger.Info("scenario passed", zap.String("scenario", sc.Name))
		}
		results = append(results, res)
	}
	return results
}

// Failed returns the results that did not pass and were not skipped.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Skipped && r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

func runOne(t *abi.Table, sc Scenario) (res Result) {
	res.Name = sc.Name
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := ffboundary.IsContractViolation(r); ok {
				res.Err = ce
				return
			}
			res.Err = fmt.Errorf("panic: %v", r)
		}
	}()

	seqBefore, objBefore := live(t)
	err := sc.Run(t)
	if errors.Is(err, ErrUnsupported) {
		res.Skipped = true
		res.Err = err
		return res
	}
	if err != nil {
		res.Err = err
		return res
	}
	seqAfter, objAfter := live(t)
	if seqAfter != seqBefore || objAfter != objBefore {
		res.Err = fmt.Errorf("leak: sequences %d -> %d, objects %d -> %d",
			seqBefore, seqAfter, objBefore, objAfter)
	}
	return res
}

func live(t *abi.Table) (uint64, uint64) {
	var seqs, objs uint64
	if t.LiveSequences != nil {
		seqs = t.LiveSequences()
	}
	if t.LiveObjects != nil {
		objs = t.LiveObjects()
	}
	return seqs, objs
}

// need returns ErrUnsupported if any of the named symbols is unbound.
func need(t *abi.Table, names ...string) error {
	missing := make(map[string]bool)
	for _, name := range t.Missing() {
		missing[name] = true
	}
	for _, name := range names {
		if missing[name] {
			return fmt.Errorf("%w: %s", ErrUnsupported, name)
		}
	}
	return nil
}

func expect(what string, got, want uint32) error {
	if got != want {
		return fmt.Errorf("%s: got %d, want %d", what, got, want)
	}
	return nil
}
