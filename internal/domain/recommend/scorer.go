// Package recommend ranks freelancers for a task. Scores are recomputed on
// every call; nothing is cached or persisted.
package recommend

import (
	"sort"
	"strings"
)

// Target is the part of a task the scorer looks at.
type Target struct {
	Skills []string
}

// Candidate is a freelancer profile in the pool.
type Candidate struct {
	ID            int64
	Skills        []string
	Rating        float64
	CompletedJobs int
}

type Scorer interface {
	Score(task Target, c Candidate) float64
}

// SkillScorer counts case-insensitive skill overlap, plus optional weighted
// rating and completed-job bonuses.
type SkillScorer struct {
	RatingWeight float64
	JobsWeight   float64
}

// DefaultScorer keeps overlap dominant: a full rating point is worth a
// tenth of a matching skill.
var DefaultScorer = SkillScorer{RatingWeight: 0.1, JobsWeight: 0.01}

func (s SkillScorer) Score(task Target, c Candidate) float64 {
	overlap := Overlap(task.Skills, c.Skills)
	if overlap == 0 {
		return 0
	}
	return float64(overlap) + s.RatingWeight*c.Rating + s.JobsWeight*float64(c.CompletedJobs)
}

// Overlap counts distinct required skills the candidate has.
func Overlap(required, have []string) int {
	if len(required) == 0 || len(have) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[normalize(s)] = struct{}{}
	}

	seen := make(map[string]struct{}, len(required))
	n := 0
	for _, r := range required {
		key := normalize(r)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := set[key]; ok {
			n++
		}
	}
	return n
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Ranked pairs a candidate with its score.
type Ranked struct {
	Candidate Candidate
	Score     float64
	Overlap   int
}

// Rank drops candidates with no skill overlap and sorts the rest by score,
// descending. Equal scores keep their input order.
func Rank(task Target, pool []Candidate, scorer Scorer) []Ranked {
	if scorer == nil {
		scorer = DefaultScorer
	}

	out := make([]Ranked, 0, len(pool))
	for _, c := range pool {
		overlap := Overlap(task.Skills, c.Skills)
		if overlap == 0 {
			continue
		}
		out = append(out, Ranked{Candidate: c, Score: scorer.Score(task, c), Overlap: overlap})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Page slices a ranked list; out-of-range offsets return an empty slice.
func Page(ranked []Ranked, limit, offset int) []Ranked {
	if offset >= len(ranked) || offset < 0 {
		return []Ranked{}
	}
	end := len(ranked)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return ranked[offset:end]
}
