package analyzer

import (
	"math"
	"sort"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"gonum.org/v1/gonum/stat"
)

const maxPositionClusters = 5

// commonPositions reduces the observed shape positions to at most five
// representative ones. Dense decks go through k-means on standard-scaled
// coordinates; small or degenerate inputs fall back to a frequency ranking,
// which is deterministic and exact for few distinct positions.
func commonPositions(positions []Position, counts map[Position]int) []Position {
	if len(positions) == 0 {
		return nil
	}
	k := maxPositionClusters
	if len(positions) < k {
		k = len(positions)
	}
	if len(counts) <= k || k < 2 {
		return topPositions(counts, k)
	}

	lefts := make([]float64, len(positions))
	tops := make([]float64, len(positions))
	for i, p := range positions {
		lefts[i] = p.Left
		tops[i] = p.Top
	}
	meanL, stdL := stat.Mean(lefts, nil), stat.StdDev(lefts, nil)
	meanT, stdT := stat.Mean(tops, nil), stat.StdDev(tops, nil)
	if stdL == 0 || stdT == 0 || math.IsNaN(stdL) || math.IsNaN(stdT) {
		return topPositions(counts, k)
	}

	obs := make(clusters.Observations, len(positions))
	for i, p := range positions {
		obs[i] = clusters.Coordinates{(p.Left - meanL) / stdL, (p.Top - meanT) / stdT}
	}
	km := kmeans.New()
	result, err := km.Partition(obs, k)
	if err != nil {
		return topPositions(counts, k)
	}

	out := make([]Position, 0, len(result))
	for _, c := range result {
		if len(c.Center) < 2 || len(c.Observations) == 0 {
			continue
		}
		out = append(out, Position{
			Left: roundTo(c.Center[0]*stdL+meanL, 2),
			Top:  roundTo(c.Center[1]*stdT+meanT, 2),
		})
	}
	if len(out) == 0 {
		return topPositions(counts, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Top != out[j].Top {
			return out[i].Top < out[j].Top
		}
		return out[i].Left < out[j].Left
	})
	return out
}

// topPositions ranks distinct positions by frequency, ties broken by
// reading order (top, then left).
func topPositions(counts map[Position]int, limit int) []Position {
	type entry struct {
		pos   Position
		count int
	}
	entries := make([]entry, 0, len(counts))
	for p, c := range counts {
		entries = append(entries, entry{p, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		if entries[i].pos.Top != entries[j].pos.Top {
			return entries[i].pos.Top < entries[j].pos.Top
		}
		return entries[i].pos.Left < entries[j].pos.Left
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]Position, len(entries))
	for i, e := range entries {
		out[i] = e.pos
	}
	return out
}
