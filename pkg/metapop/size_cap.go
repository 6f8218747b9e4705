package metapop

import "math"

// capFormula computes floor(50*(n+250)*(1+2*exp(-n/500))), the absolute
// population cap for n completed expansions — constants and formula
// carried verbatim from the MOSES original this engine is modeled on.
func capFormula(nExpansions int) int {
	n := float64(nExpansions)
	capacity := 50 * (n + 250) * (1 + 2*math.Exp(-n/500))
	return int(math.Floor(capacity))
}

// Evict applies the two-stage size-cap eviction after a merge
// has left the store larger than MinPool:
//
//  1. Weighted-score cut: starting from MinPool, advance until the first
//     entry with w < worst (= top's w - UsefulScoreRange), then bulk-trim
//     the tail — correct because the store is w-descending.
//  2. Absolute cap: while the store still exceeds capFormula(nExpansions),
//     evict a uniformly random entry from [Offset, len) — the leading
//     Offset entries are protected elites.
func Evict(m *Metapopulation, cfg Config, rng *RNG, nExpansions int) {
	if m.Len() <= cfg.MinPool {
		return
	}

	top := m.Head()
	worst := top.Weighted(cfg.ComplexityWeight) - UsefulScoreRange(cfg.ComplexityTemperature)

	entries := m.Entries()
	cut := -1
	for i := cfg.MinPool; i < len(entries); i++ {
		if entries[i].Weighted(cfg.ComplexityWeight) < worst {
			cut = i
			break
		}
	}
	if cut >= 0 {
		m.EraseRange(cut)
	}

	capN := capFormula(nExpansions)
	for m.Len() > capN {
		lo := cfg.Offset
		if lo >= m.Len() {
			break
		}
		i := lo + rng.Intn(m.Len()-lo)
		m.EraseAt(i)
	}
}
