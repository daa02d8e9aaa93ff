package service

import (
	"strings"

	"goatmeter-be/internal/domain"
)

// Shared deduction arithmetic. Revocation and account deletion both
// reverse vote effects through these two pure functions so a single vote
// and a batch of five hundred are subtracted with identical rules:
// counters floor at zero, map entries reduced to zero disappear, and
// votes with an invalid stance are skipped rather than failing the batch.

// ComputeGlobalDeductions returns a new global summary with the effects
// of the given votes removed. A nil summary is treated as the zero
// state. The recent-votes ring is carried over untouched; revocation
// does not rewrite ticker history.
func ComputeGlobalDeductions(summary *domain.GlobalSummary, votes []*domain.Vote) *domain.GlobalSummary {
	if summary == nil {
		summary = domain.NewGlobalSummary()
	}
	out := summary.Clone()

	for _, vote := range votes {
		if vote == nil || !vote.Status.IsValid() {
			continue
		}

		if out.TotalVotes > 0 {
			out.TotalVotes--
		}
		if out.StanceCounts[vote.Status] > 0 {
			out.StanceCounts[vote.Status]--
		}

		switch {
		case vote.Status.IsPro():
			for _, reason := range vote.Reasons {
				out.ReasonCountsLike[reason]--
				if out.ReasonCountsLike[reason] <= 0 {
					delete(out.ReasonCountsLike, reason)
				}
			}
		case vote.Status.IsAnti():
			for _, reason := range vote.Reasons {
				out.ReasonCountsDislike[reason]--
				if out.ReasonCountsDislike[reason] <= 0 {
					delete(out.ReasonCountsDislike, reason)
				}
			}
		}

		cc := countryCode(vote.Country)
		if cur, ok := out.CountryCounts[cc]; cc != "" && ok {
			if vote.Status.IsPro() && cur.Pro > 0 {
				cur.Pro--
			}
			if vote.Status.IsAnti() && cur.Anti > 0 {
				cur.Anti--
			}
			if cur.Pro > 0 || cur.Anti > 0 {
				out.CountryCounts[cc] = cur
			} else {
				delete(out.CountryCounts, cc)
			}
		}
	}

	return out
}

// ComputeWarzoneDeltas aggregates the (negative) per-warzone decrements
// for a batch of votes. Votes that never contributed to a rollup (no
// hadWarzoneStats flag, no resolvable warzone id, invalid stance) are
// skipped entirely so they are not "un-contributed".
func ComputeWarzoneDeltas(votes []*domain.Vote) map[string]domain.WarzoneDelta {
	deltas := make(map[string]domain.WarzoneDelta)
	for _, vote := range votes {
		if vote == nil || !vote.Status.IsValid() || !vote.HadWarzoneStats {
			continue
		}
		wid := strings.TrimSpace(vote.WarzoneID)
		if wid == "" {
			continue
		}

		delta, ok := deltas[wid]
		if !ok {
			delta = domain.WarzoneDelta{StanceCounts: make(map[domain.Stance]int)}
		}
		delta.TotalVotes--
		delta.StanceCounts[vote.Status]--
		deltas[wid] = delta
	}
	return deltas
}

// countryCode normalizes a stored country value to a two-letter upper
// case code, the key format of the country-count map.
func countryCode(country string) string {
	cc := strings.ToUpper(strings.TrimSpace(country))
	if len(cc) > 2 {
		cc = cc[:2]
	}
	return cc
}
