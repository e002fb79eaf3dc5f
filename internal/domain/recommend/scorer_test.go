package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(ranked []Ranked) []int64 {
	out := make([]int64, len(ranked))
	for i, r := range ranked {
		out[i] = r.Candidate.ID
	}
	return out
}

func TestOverlap_CaseInsensitiveAndDistinct(t *testing.T) {
	assert.Equal(t, 2, Overlap([]string{"Go", "SQL", "go"}, []string{" golang", "GO", "sql"}))
	assert.Equal(t, 0, Overlap(nil, []string{"go"}))
	assert.Equal(t, 0, Overlap([]string{"go"}, nil))
	assert.Equal(t, 0, Overlap([]string{""}, []string{""}))
}

func TestRank_SortsByOverlapDescending(t *testing.T) {
	task := Target{Skills: []string{"go", "postgres", "docker"}}
	pool := []Candidate{
		{ID: 1, Skills: []string{"go"}},
		{ID: 2, Skills: []string{"go", "postgres", "docker"}},
		{ID: 3, Skills: []string{"react"}},
		{ID: 4, Skills: []string{"Docker", "Go"}},
	}

	ranked := Rank(task, pool, SkillScorer{})
	assert.Equal(t, []int64{2, 4, 1}, ids(ranked))
	assert.Equal(t, 3, ranked[0].Overlap)
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	task := Target{Skills: []string{"go"}}
	pool := []Candidate{
		{ID: 5, Skills: []string{"go"}},
		{ID: 2, Skills: []string{"go"}},
		{ID: 9, Skills: []string{"go"}},
	}

	assert.Equal(t, []int64{5, 2, 9}, ids(Rank(task, pool, SkillScorer{})))
}

func TestRank_WeightsBreakOverlapTies(t *testing.T) {
	task := Target{Skills: []string{"go"}}
	pool := []Candidate{
		{ID: 1, Skills: []string{"go"}, Rating: 3.0},
		{ID: 2, Skills: []string{"go"}, Rating: 4.8, CompletedJobs: 10},
	}

	ranked := Rank(task, pool, DefaultScorer)
	assert.Equal(t, []int64{2, 1}, ids(ranked))
	assert.InDelta(t, 1.58, ranked[0].Score, 1e-9)
}

func TestRank_RatingNeverRescuesZeroOverlap(t *testing.T) {
	task := Target{Skills: []string{"go"}}
	pool := []Candidate{{ID: 1, Skills: []string{"php"}, Rating: 5, CompletedJobs: 100}}

	assert.Empty(t, Rank(task, pool, DefaultScorer))
	assert.Zero(t, DefaultScorer.Score(task, pool[0]))
}

func TestRank_NilScorerUsesDefault(t *testing.T) {
	ranked := Rank(Target{Skills: []string{"go"}}, []Candidate{{ID: 1, Skills: []string{"go"}}}, nil)
	assert.Len(t, ranked, 1)
}

func TestPage(t *testing.T) {
	ranked := []Ranked{{Candidate: Candidate{ID: 1}}, {Candidate: Candidate{ID: 2}}, {Candidate: Candidate{ID: 3}}}

	assert.Equal(t, []int64{1, 2}, ids(Page(ranked, 2, 0)))
	assert.Equal(t, []int64{3}, ids(Page(ranked, 2, 2)))
	assert.Empty(t, Page(ranked, 2, 5))
	assert.Equal(t, []int64{1, 2, 3}, ids(Page(ranked, 0, 0)))
}
