package game

const (
	winnerBonus  = 5
	fastestBonus = 2
)

// resolveRound computes the per-player point deltas for a round. It is a
// pure function of its inputs: calling it again with the same ledger state
// yields the same mapping.
//
// With a moderator verdict present, the verdict's scores are the round's
// points and the vote tally is ignored entirely. Otherwise the author with
// the most votes takes the winner bonus (competitive mode only; ties go to
// the author whose submission landed first) and the earliest submission
// takes the fastest bonus. The two bonuses stack. Casual mode skips voting,
// so only the fastest bonus is ever awarded there.
func resolveRound(players []*Player, submissions []Submission, votes []Vote, verdict *Verdict, mode ScoringMode) map[string]int {
	deltas := make(map[string]int, len(players))
	for _, p := range players {
		deltas[p.ID] = 0
	}

	if verdict != nil {
		for _, p := range players {
			deltas[p.ID] = verdict.Scores[p.ID]
		}
		return deltas
	}

	if len(submissions) == 0 {
		return deltas
	}

	if mode == ScoringCompetitive && len(votes) > 0 {
		counts := make(map[string]int, len(submissions))
		for _, v := range votes {
			counts[v.TargetID]++
		}
		max := 0
		for _, c := range counts {
			if c > max {
				max = c
			}
		}
		// Insertion order of submissions breaks ties deterministically.
		for _, s := range submissions {
			if counts[s.PlayerID] == max {
				deltas[s.PlayerID] += winnerBonus
				break
			}
		}
	}

	fastest := submissions[0]
	for _, s := range submissions[1:] {
		if s.SubmittedAt.Before(fastest.SubmittedAt) {
			fastest = s
		}
	}
	deltas[fastest.PlayerID] += fastestBonus

	return deltas
}
