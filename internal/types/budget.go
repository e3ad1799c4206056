package types

import "math"

// BudgetAllocation is a display-oriented split of the total budget across
// the standard spending lanes.
type BudgetAllocation struct {
	Media     float64 `json:"media"`
	Field     float64 `json:"field"`
	Digital   float64 `json:"digital"`
	Overhead  float64 `json:"overhead"`
	Remainder float64 `json:"remainder"`
}

// WinNumber returns the vote goal implied by expected turnout: a simple
// majority plus one. Returns 0 when turnout is unset.
func (p CampaignProfile) WinNumber() int {
	if p.ExpectedTurnout <= 0 {
		return 0
	}
	return p.ExpectedTurnout/2 + 1
}

// EffectiveVoteGoal prefers the user-entered goal and falls back to the
// computed win number.
func (p CampaignProfile) EffectiveVoteGoal() int {
	if p.VoteGoal > 0 {
		return p.VoteGoal
	}
	return p.WinNumber()
}

// AllocateBudget splits the total budget across lanes using the standard
// 45/25/20/10 ratio. Fractions are rounded to cents; rounding drift lands
// in Remainder so the lanes always sum back to the total.
func (p CampaignProfile) AllocateBudget() BudgetAllocation {
	if p.BudgetTotal <= 0 {
		return BudgetAllocation{}
	}
	cents := func(f float64) float64 { return math.Floor(f*100) / 100 }
	a := BudgetAllocation{
		Media:    cents(p.BudgetTotal * 0.45),
		Field:    cents(p.BudgetTotal * 0.25),
		Digital:  cents(p.BudgetTotal * 0.20),
		Overhead: cents(p.BudgetTotal * 0.10),
	}
	a.Remainder = cents(p.BudgetTotal - a.Media - a.Field - a.Digital - a.Overhead)
	return a
}

// CostPerVote returns budget divided by the effective vote goal, or 0 when
// either figure is unset.
func (p CampaignProfile) CostPerVote() float64 {
	goal := p.EffectiveVoteGoal()
	if goal <= 0 || p.BudgetTotal <= 0 {
		return 0
	}
	return p.BudgetTotal / float64(goal)
}
