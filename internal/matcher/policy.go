package matcher

import "spotigrab/internal/config"

// Policy centralizes ranking weights, the duration tolerance, and keyword rules.
type Policy struct {
	TitleWeight      float64
	ArtistWeight     float64
	DurationWeight   float64
	ToleranceSeconds float64
	BonusKeywords    []string
	Bonus            float64
	PenaltyKeywords  []string
	Penalty          float64
}

// DefaultPolicy returns the weights used by the canonical ranker.
func DefaultPolicy() Policy {
	return Policy{
		TitleWeight:      0.6,
		ArtistWeight:     0.3,
		DurationWeight:   0.1,
		ToleranceSeconds: 20,
		BonusKeywords:    []string{"official", "original", "audio", "lyrics"},
		Bonus:            0.1,
		PenaltyKeywords:  []string{"cover", "remix", "speed up"},
		Penalty:          0.2,
	}
}

// PolicyFromConfig builds a policy from the [matching] config section.
func PolicyFromConfig(cfg config.Matching) Policy {
	return Policy{
		TitleWeight:      cfg.TitleWeight,
		ArtistWeight:     cfg.ArtistWeight,
		DurationWeight:   cfg.DurationWeight,
		ToleranceSeconds: cfg.ToleranceSeconds,
		BonusKeywords:    append([]string(nil), cfg.BonusKeywords...),
		Bonus:            cfg.Bonus,
		PenaltyKeywords:  append([]string(nil), cfg.PenaltyKeywords...),
		Penalty:          cfg.Penalty,
	}.normalized()
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()

	if p.TitleWeight < 0 || p.ArtistWeight < 0 || p.DurationWeight < 0 ||
		p.TitleWeight+p.ArtistWeight+p.DurationWeight == 0 {
		p.TitleWeight = d.TitleWeight
		p.ArtistWeight = d.ArtistWeight
		p.DurationWeight = d.DurationWeight
	}
	if p.ToleranceSeconds < 0 {
		p.ToleranceSeconds = d.ToleranceSeconds
	}
	if p.Bonus < 0 {
		p.Bonus = d.Bonus
	}
	if p.Penalty < 0 {
		p.Penalty = d.Penalty
	}
	if p.BonusKeywords == nil {
		p.BonusKeywords = d.BonusKeywords
	}
	if p.PenaltyKeywords == nil {
		p.PenaltyKeywords = d.PenaltyKeywords
	}

	return p
}
