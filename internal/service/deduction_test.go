package service

import (
	"testing"

	"goatmeter-be/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goatVote(id, warzone string, reasons ...string) *domain.Vote {
	return &domain.Vote{
		ID:              id,
		UserID:          "user-" + id,
		Status:          domain.StanceGoat,
		Reasons:         reasons,
		WarzoneID:       warzone,
		Country:         "TW",
		HadWarzoneStats: true,
	}
}

func TestComputeGlobalDeductions_SingleVote(t *testing.T) {
	summary := domain.NewGlobalSummary()
	summary.TotalVotes = 1
	summary.StanceCounts[domain.StanceGoat] = 1
	summary.ReasonCountsLike = map[string]int{"411_first": 1, "highest_iq": 1}
	summary.CountryCounts = map[string]domain.CountryCount{"TW": {Pro: 1}}

	vote := goatVote("v1", "LAL", "411_first", "highest_iq")
	out := ComputeGlobalDeductions(summary, []*domain.Vote{vote})

	assert.Equal(t, 0, out.TotalVotes)
	assert.Equal(t, 0, out.StanceCounts[domain.StanceGoat])
	assert.Empty(t, out.ReasonCountsLike)
	assert.Empty(t, out.CountryCounts)

	// The input snapshot must stay untouched.
	assert.Equal(t, 1, summary.TotalVotes)
	assert.Equal(t, map[string]int{"411_first": 1, "highest_iq": 1}, summary.ReasonCountsLike)
}

func TestComputeGlobalDeductions_NilSummaryIsZeroState(t *testing.T) {
	out := ComputeGlobalDeductions(nil, []*domain.Vote{goatVote("v1", "LAL")})

	assert.Equal(t, 0, out.TotalVotes)
	for _, stance := range domain.Stances {
		assert.Equal(t, 0, out.StanceCounts[stance], "stance %s", stance)
	}
	assert.Empty(t, out.ReasonCountsLike)
	assert.Empty(t, out.ReasonCountsDislike)
	assert.Empty(t, out.CountryCounts)
}

func TestComputeGlobalDeductions_FloorsAtZero(t *testing.T) {
	summary := domain.NewGlobalSummary()
	summary.TotalVotes = 1
	summary.StanceCounts[domain.StanceGoat] = 1

	votes := []*domain.Vote{goatVote("v1", "LAL"), goatVote("v2", "LAL")}
	out := ComputeGlobalDeductions(summary, votes)

	assert.Equal(t, 0, out.TotalVotes)
	assert.Equal(t, 0, out.StanceCounts[domain.StanceGoat])
}

func TestComputeGlobalDeductions_MapPruning(t *testing.T) {
	summary := domain.NewGlobalSummary()
	summary.TotalVotes = 3
	summary.StanceCounts[domain.StanceFraud] = 2
	summary.StanceCounts[domain.StanceGoat] = 1
	summary.ReasonCountsDislike = map[string]int{"2011_finals": 2, "leflop": 1}
	summary.CountryCounts = map[string]domain.CountryCount{
		"US": {Pro: 1, Anti: 1},
		"TW": {Anti: 1},
	}

	vote := &domain.Vote{
		ID:              "v1",
		Status:          domain.StanceFraud,
		Reasons:         []string{"2011_finals", "leflop"},
		WarzoneID:       "BOS",
		Country:         "TW",
		HadWarzoneStats: true,
	}
	out := ComputeGlobalDeductions(summary, []*domain.Vote{vote})

	assert.Equal(t, 2, out.TotalVotes)
	assert.Equal(t, 1, out.StanceCounts[domain.StanceFraud])
	assert.Equal(t, map[string]int{"2011_finals": 1}, out.ReasonCountsDislike)
	// TW dropped to zero on both sides and must be absent, US untouched.
	_, ok := out.CountryCounts["TW"]
	assert.False(t, ok)
	assert.Equal(t, domain.CountryCount{Pro: 1, Anti: 1}, out.CountryCounts["US"])
}

func TestComputeGlobalDeductions_SkipsInvalidStance(t *testing.T) {
	summary := domain.NewGlobalSummary()
	summary.TotalVotes = 2
	summary.StanceCounts[domain.StanceGoat] = 2

	votes := []*domain.Vote{
		{ID: "bad", Status: domain.Stance("banana")},
		nil,
		goatVote("v1", "LAL"),
	}
	out := ComputeGlobalDeductions(summary, votes)

	assert.Equal(t, 1, out.TotalVotes)
	assert.Equal(t, 1, out.StanceCounts[domain.StanceGoat])
}

func TestComputeGlobalDeductions_KeepsRecentVotes(t *testing.T) {
	summary := domain.NewGlobalSummary()
	summary.TotalVotes = 1
	summary.StanceCounts[domain.StanceGoat] = 1
	summary.RecentVotes = []domain.RecentVote{{Status: domain.StanceGoat, WarzoneID: "LAL"}}

	out := ComputeGlobalDeductions(summary, []*domain.Vote{goatVote("v1", "LAL")})

	require.Len(t, out.RecentVotes, 1)
	assert.Equal(t, "LAL", out.RecentVotes[0].WarzoneID)
}

func TestComputeWarzoneDeltas(t *testing.T) {
	tests := []struct {
		name  string
		votes []*domain.Vote
		want  map[string]domain.WarzoneDelta
	}{
		{
			name:  "single vote",
			votes: []*domain.Vote{goatVote("v1", "LAL")},
			want: map[string]domain.WarzoneDelta{
				"LAL": {TotalVotes: -1, StanceCounts: map[domain.Stance]int{domain.StanceGoat: -1}},
			},
		},
		{
			name: "aggregates across warzones",
			votes: []*domain.Vote{
				goatVote("v1", "LAL"),
				goatVote("v2", "LAL"),
				{ID: "v3", Status: domain.StanceFraud, WarzoneID: "BOS", HadWarzoneStats: true},
			},
			want: map[string]domain.WarzoneDelta{
				"LAL": {TotalVotes: -2, StanceCounts: map[domain.Stance]int{domain.StanceGoat: -2}},
				"BOS": {TotalVotes: -1, StanceCounts: map[domain.Stance]int{domain.StanceFraud: -1}},
			},
		},
		{
			name: "skips votes that never contributed",
			votes: []*domain.Vote{
				{ID: "v1", Status: domain.StanceGoat, WarzoneID: "LAL", HadWarzoneStats: false},
				{ID: "v2", Status: domain.StanceGoat, WarzoneID: "  ", HadWarzoneStats: true},
				{ID: "v3", Status: domain.Stance("bogus"), WarzoneID: "LAL", HadWarzoneStats: true},
				nil,
			},
			want: map[string]domain.WarzoneDelta{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeWarzoneDeltas(tt.votes)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountryCode(t *testing.T) {
	assert.Equal(t, "TW", countryCode(" tw "))
	assert.Equal(t, "US", countryCode("USA"))
	assert.Equal(t, "", countryCode("   "))
}
