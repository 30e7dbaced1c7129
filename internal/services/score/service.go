package score

import "sort"

// Tier is a (points, maxTries) bucket used to compute the score awarded on
// a successful resolve.
type Tier struct {
	Points   int
	MaxTries int // -1 means no upper bound
}

// DefaultTiers mirrors the original scoring table: a flawless solve is
// worth 150 points, degrading to zero beyond twelve attempts.
func DefaultTiers() []Tier {
	return []Tier{
		{Points: 150, MaxTries: 0},
		{Points: 100, MaxTries: 5},
		{Points: 70, MaxTries: 8},
		{Points: 50, MaxTries: 12},
		{Points: 0, MaxTries: -1},
	}
}

// Service maps attempt counts to point tiers
type Service struct {
	tiers []Tier
}

// New creates a scoring service over the given tiers. Tiers are sorted
// ascending by MaxTries with the unbounded tier last.
func New(tiers []Tier) *Service {
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}

	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MaxTries < 0 {
			return false
		}
		if sorted[j].MaxTries < 0 {
			return true
		}
		return sorted[i].MaxTries < sorted[j].MaxTries
	})

	return &Service{tiers: sorted}
}

// TierFor returns the first tier whose MaxTries covers the given attempt
// count, falling back to the lowest tier.
func (s *Service) TierFor(tries int) Tier {
	for _, t := range s.tiers {
		if t.MaxTries < 0 || tries <= t.MaxTries {
			return t
		}
	}
	return s.tiers[len(s.tiers)-1]
}

// Interface for dependency injection
type ServiceInterface interface {
	TierFor(tries int) Tier
}

var _ ServiceInterface = (*Service)(nil)
