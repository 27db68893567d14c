package analysis

// FinalScore derives the overall score in [0,100]. ats.score wins; otherwise the
// score explanation breakdown is used; otherwise 0.
func FinalScore(raw RawBackendResult) int {
	score := 0
	if raw.ATS.Score.Set {
		score = clampScore(raw.ATS.Score.Value)
	} else if fromBreakdown, ok := scoreFromExplanation(raw.ATS.ScoreExplanation); ok {
		score = fromBreakdown
	}

	// A top-level 0 next to positive component scores is a known backend
	// inconsistency; trust the components in that case.
	if score == 0 && explanationHasPositiveComponent(raw.ATS.ScoreExplanation) {
		if fromBreakdown, ok := scoreFromExplanation(raw.ATS.ScoreExplanation); ok {
			score = fromBreakdown
		}
	}
	return score
}

// MatchScore derives the job-match score in [0,100]. A 0 means either no job
// description was provided or the score genuinely computed to 0.
func MatchScore(raw RawBackendResult) int {
	summary := raw.Summary
	if v, ok := firstNumber(summary.MatchScore, summary.MatchPercentage, summary.Score); ok {
		return clampScore(v)
	}
	breakdown := raw.ATS.ScoreBreakdown
	if v, ok := firstNumber(breakdown.TotalScore, breakdown.OverallScore); ok {
		return clampScore(v)
	}
	if !raw.Meta.JobDescriptionProvided.IsTrue() {
		return 0
	}
	return clampScore(100 - float64(missingKeywordCount(raw.ATS.MissingKeywords))*4)
}

func missingKeywordCount(field MissingKeywordsField) int {
	if field.Buckets != nil {
		return len(field.Buckets.FromJobDescription)
	}
	return len(field.Flat)
}

// scoreFromExplanation computes a score from a structured breakdown: an explicit
// totalScore, else the weight-normalized average, else the plain mean.
func scoreFromExplanation(field ScoreExplanationField) (int, bool) {
	explanation := field.Structured
	if explanation == nil {
		return 0, false
	}
	if explanation.TotalScore.Set {
		return clampScore(explanation.TotalScore.Value), true
	}
	components := explanation.Components
	if len(components) == 0 {
		return 0, false
	}

	totalWeight := 0.0
	for _, c := range components {
		totalWeight += c.Weight.Value
	}
	if totalWeight > 0 {
		weighted := 0.0
		for _, c := range components {
			weighted += c.Score.Value * c.Weight.Value
		}
		return clampScore(weighted / totalWeight), true
	}

	sum := 0.0
	for _, c := range components {
		sum += c.Score.Value
	}
	return clampScore(sum / float64(len(components))), true
}

func explanationHasPositiveComponent(field ScoreExplanationField) bool {
	if field.Structured == nil {
		return false
	}
	for _, c := range field.Structured.Components {
		if c.Score.Value > 0 {
			return true
		}
	}
	return false
}
