package analysis

// topKeywordLimit caps the keywords surfaced as "fix first".
const topKeywordLimit = 6

type KeywordGuidance struct {
	Keyword   string `json:"keyword"`
	Placement string `json:"placement"`
	Example   string `json:"example"`
}

// Report bundles the canonical analysis with every view derived from it.
type Report struct {
	Analysis              AnalysisResponse    `json:"analysis"`
	ScoreExplanation      ScoreExplanation    `json:"scoreExplanation"`
	Insights              InsightsModel       `json:"insights"`
	SkillGap              SkillGapModel       `json:"skillGap"`
	TopKeywords           []KeywordGuidance   `json:"topKeywords"`
	KeywordRecommendation *RecommendationItem `json:"keywordRecommendation,omitempty"`
}

// BuildReport derives all views from a. It does not modify a.
func BuildReport(a AnalysisResponse) Report {
	return Report{
		Analysis:              a,
		ScoreExplanation:      BuildScoreExplanation(a),
		Insights:              MapAnalysisToInsights(a),
		SkillGap:              BuildSkillGapModel(a),
		TopKeywords:           GuideKeywords(JobDescriptionKeywords(a), a.Issues, a.Recommendations, topKeywordLimit),
		KeywordRecommendation: FindKeywordRecommendation(a.Recommendations),
	}
}

// GuideKeywords ranks keywords and attaches placement and phrasing guidance to
// the first limit of them. A non-positive limit keeps all.
func GuideKeywords(keywords []string, issues []IssueItem, recommendations []RecommendationItem, limit int) []KeywordGuidance {
	ranked := RankKeywords(keywords, issues, recommendations)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]KeywordGuidance, 0, len(ranked))
	for _, keyword := range ranked {
		out = append(out, KeywordGuidance{
			Keyword:   keyword,
			Placement: PlacementSuggestion(keyword, issues),
			Example:   ExamplePhrasing(keyword),
		})
	}
	return out
}
