package identify

import (
	"fmt"
	"strings"

	"causeway/internal/dsep"
)

// backdoorSearch looks for an observed adjustment set that blocks every
// backdoor path from treatment to outcome. The separation test runs on
// the graph with all edges out of treatment removed, so only confounding
// routes remain. Policy: the derived observed common-cause set is tried
// first; failing that, supplemental subsets of the eligible candidates
// are enumerated in increasing size, candidates in node insertion order,
// so the first hit is minimal and the tie-break is deterministic.
func (e *Engine) backdoorSearch(treatments, outcomes []string) (*Estimand, []string, error) {
	var notes []string

	latent, err := e.g.UnobservedConfounders(treatments, outcomes)
	if err != nil {
		return nil, nil, err
	}
	if len(latent) > 0 {
		if !e.proceed {
			notes = append(notes, fmt.Sprintf(
				"backdoor: unobserved confounders present (%s); identification refused without proceed_when_unidentifiable",
				strings.Join(latent, ", ")))
			e.logger.Warn("backdoor identification refused", "unobserved", latent)
			return nil, notes, nil
		}
		notes = append(notes, fmt.Sprintf(
			"backdoor: proceeding under caution, unobserved confounders (%s) assumed ignorable",
			strings.Join(latent, ", ")))
	}

	common, err := e.g.CommonCauses(treatments, outcomes)
	if err != nil {
		return nil, nil, err
	}
	var observedCommon []string
	for _, c := range common {
		if e.g.Observed(c) {
			observedCommon = append(observedCommon, c)
		}
	}

	surgery := e.g.WithoutEdgesFrom(treatments...)
	blocks := func(z []string) (bool, error) {
		return dsep.Separated(surgery, treatments, outcomes, z)
	}

	ok, err := blocks(observedCommon)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		return &Estimand{
			Method:        MethodBackdoor,
			Expression:    backdoorExpression(treatments, outcomes, observedCommon),
			AdjustmentSet: observedCommon,
		}, notes, nil
	}

	candidates := e.backdoorCandidates(treatments, outcomes, observedCommon)
	maxSize := e.maxAdjustment
	if maxSize <= 0 || maxSize > len(candidates) {
		maxSize = len(candidates)
	}

	for size := 1; size <= maxSize; size++ {
		var found []string
		err := forEachCombination(len(candidates), size, func(idx []int) (bool, error) {
			z := append([]string(nil), observedCommon...)
			for _, i := range idx {
				z = append(z, candidates[i])
			}
			ok, err := blocks(z)
			if err != nil {
				return false, err
			}
			if ok {
				found = z
			}
			return ok, nil
		})
		if err != nil {
			return nil, nil, err
		}
		if found != nil {
			return &Estimand{
				Method:        MethodBackdoor,
				Expression:    backdoorExpression(treatments, outcomes, found),
				AdjustmentSet: found,
			}, notes, nil
		}
	}

	notes = append(notes, "backdoor: no observed adjustment set blocks all backdoor paths")
	return nil, notes, nil
}

// backdoorCandidates returns the observed variables eligible for an
// adjustment set: not a treatment or outcome, not a descendant of any
// treatment, and not already in the base set. Insertion order preserved.
func (e *Engine) backdoorCandidates(treatments, outcomes, base []string) []string {
	skip := make(map[string]bool, len(treatments)+len(outcomes)+len(base))
	for _, n := range treatments {
		skip[n] = true
	}
	for _, n := range outcomes {
		skip[n] = true
	}
	for _, n := range base {
		skip[n] = true
	}
	descT := make(map[string]bool)
	for _, t := range treatments {
		d, _ := e.g.Descendants(t)
		for _, n := range d {
			descT[n] = true
		}
	}
	var out []string
	for _, name := range e.g.Nodes() {
		if skip[name] || descT[name] || !e.g.Observed(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// forEachCombination enumerates k-combinations of [0,n) in lexicographic
// index order, calling fn for each until it reports done.
func forEachCombination(n, k int, fn func(idx []int) (bool, error)) error {
	if k > n {
		return nil
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		done, err := fn(idx)
		if err != nil || done {
			return err
		}
		// advance to the next combination
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return nil
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
