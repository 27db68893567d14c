package analysis

import (
	"fmt"
	"time"
)

const (
	unknownAnalysisID = "analysis-unknown"
	createdAtLayout   = "2006-01-02T15:04:05.000Z07:00"
)

// Adapter maps raw backend payloads onto the canonical model. Now supplies the
// createdAt default when the payload carries none; nil means time.Now.
type Adapter struct {
	Now func() time.Time
}

// FromBackendResult maps raw onto the canonical model using the wall clock.
func FromBackendResult(raw RawBackendResult) AnalysisResponse {
	return Adapter{}.FromBackend(raw)
}

// FromBackend maps raw onto the canonical model. It has no failure mode: every
// missing or unusable field degrades to a fixed default.
func (a Adapter) FromBackend(raw RawBackendResult) AnalysisResponse {
	ats := raw.ATS

	createdAt, ok := firstString(raw.Meta.CreatedAt)
	if !ok {
		createdAt = a.now().UTC().Format(createdAtLayout)
	}

	var buckets *MissingKeywordBuckets
	if b := ats.MissingKeywords.Buckets; b != nil {
		buckets = &MissingKeywordBuckets{
			FromJobDescription: stringsOrEmpty(b.FromJobDescription),
			IndustryCommon:     stringsOrEmpty(b.IndustryCommon),
		}
	}

	matched := ats.MatchedKeywords
	if len(matched) == 0 {
		matched = raw.Summary.MatchedKeywords
	}

	atsChecks := make([]AtsCheck, 0, len(ats.FormattingIssues))
	for i, issue := range ats.FormattingIssues {
		atsChecks = append(atsChecks, issueToCheck(issue, i))
	}
	bullets := make([]BulletSuggestion, 0, len(raw.BulletRewrites))
	for i, rewrite := range raw.BulletRewrites {
		bullets = append(bullets, rewriteToSuggestion(rewrite, i))
	}
	recommendations := make([]RecommendationItem, 0, len(raw.Recommendations))
	for i, rec := range raw.Recommendations {
		recommendations = append(recommendations, mapRecommendation(rec, i))
	}
	issues := make([]IssueItem, 0, len(raw.Issues))
	for _, issue := range raw.Issues {
		issues = append(issues, mapIssue(issue))
	}

	return AnalysisResponse{
		AnalysisID:            raw.Meta.AnalysisID.Or(unknownAnalysisID),
		CreatedAt:             createdAt,
		FinalScore:            FinalScore(raw),
		MatchScore:            MatchScore(raw),
		AnalysisMode:          AnalysisMode(raw.Meta.AnalysisMode.Or(string(ModeJobMatch))),
		ScoreExplanation:      mapScoreExplanation(ats.ScoreExplanation),
		MissingKeywords:       stringsOrEmpty(ats.MissingKeywords.Flat),
		MissingKeywordBuckets: buckets,
		WeakKeywords:          weakKeywords(raw.MissingInformation),
		MatchedKeywords:       stringsOrEmpty(matched),
		AtsChecks:             atsChecks,
		BulletSuggestions:     bullets,
		Recommendations:       recommendations,
		Issues:                issues,
		ActionPlan:            toActionPlan(raw.ActionPlan),
		Summary:               raw.Summary.Overview.Value,
		NextSteps:             actionPlanSteps(raw.ActionPlan),
	}
}

func (a Adapter) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func issueToCheck(issue RawIssue, index int) AtsCheck {
	message, ok := firstString(issue.Message, issue.Detail)
	if !ok {
		message = "No details provided."
	}
	return AtsCheck{
		ID:       issue.ID.Or(fmt.Sprintf("ats-issue-%d", index+1)),
		Title:    issue.Title.Or("ATS check"),
		Severity: MapSeverity(issue.Severity.Value),
		Message:  message,
	}
}

func rewriteToSuggestion(rewrite RawBulletRewrite, index int) BulletSuggestion {
	original, ok := firstString(rewrite.Before, rewrite.Original)
	if !ok {
		original = fmt.Sprintf("Original bullet %d", index+1)
	}
	suggested, ok := firstString(rewrite.After, rewrite.Rewrite, rewrite.Original)
	if !ok {
		suggested = "Add measurable impact."
	}
	reason, ok := firstString(rewrite.Rationale, rewrite.Reason)
	if !ok {
		reason = "Clarify the impact or outcome."
	}
	return BulletSuggestion{
		Original:           original,
		Suggested:          suggested,
		Reason:             reason,
		Section:            rewrite.Section.Value,
		ClaimSupport:       rewrite.ClaimSupport.Value,
		PlaceholdersNeeded: stringsOrEmpty(rewrite.PlaceholdersNeeded),
		MetricsSource:      rewrite.MetricsSource.Value,
	}
}

func mapRecommendation(rec RawRecommendation, index int) RecommendationItem {
	summary, ok := firstString(rec.Summary, rec.Action, rec.Details)
	if !ok {
		summary = "Consider this improvement."
	}
	order := index + 1
	if rec.Order.Set {
		order = int(rec.Order.Value)
	}
	return RecommendationItem{
		ID:       rec.ID.Or(fmt.Sprintf("rec-%d", index+1)),
		Title:    rec.Title.Or("Recommendation"),
		Summary:  summary,
		Action:   rec.Action.Value,
		Details:  rec.Details.Value,
		Severity: recommendationSeverity(MapSeverity(rec.Severity.Value)),
		Category: rec.Category.Or("General"),
		Order:    order,
	}
}

func mapIssue(issue RawIssue) IssueItem {
	section, ok := firstString(issue.Section, issue.Title)
	if !ok {
		section = "General"
	}
	problem, ok := firstString(issue.Problem, issue.Message)
	if !ok {
		problem = "Issue noted."
	}
	suggestion, ok := firstString(issue.Suggestion, issue.Detail)
	if !ok {
		suggestion = "Consider addressing this issue."
	}
	priority := 0
	if issue.Priority.Set {
		priority = int(issue.Priority.Value)
	}
	return IssueItem{
		Section:           section,
		Problem:           problem,
		Suggestion:        suggestion,
		WhyItMatters:      issue.WhyItMatters.Value,
		RequiresUserInput: stringsOrEmpty(issue.RequiresUserInput),
		Severity:          issue.Severity.Or("info"),
		Priority:          priority,
	}
}

func toActionPlan(field ActionPlanField) ActionPlan {
	switch {
	case field.Steps != nil:
		return ActionPlan{
			QuickWins:    stringsOrEmpty(field.Steps),
			MediumEffort: []string{},
			DeepFixes:    []string{},
		}
	case field.Structured != nil:
		plan := field.Structured
		if len(plan.QuickWins) == 0 && len(plan.MediumEffort) == 0 && len(plan.DeepFixes) == 0 {
			return ActionPlan{
				QuickWins:    stringsOrEmpty(plan.Steps),
				MediumEffort: []string{},
				DeepFixes:    []string{},
			}
		}
		return ActionPlan{
			QuickWins:    stringsOrEmpty(plan.QuickWins),
			MediumEffort: stringsOrEmpty(plan.MediumEffort),
			DeepFixes:    stringsOrEmpty(plan.DeepFixes),
		}
	default:
		return ActionPlan{QuickWins: []string{}, MediumEffort: []string{}, DeepFixes: []string{}}
	}
}

func actionPlanSteps(field ActionPlanField) []string {
	if field.Steps != nil {
		return stringsOrEmpty(field.Steps)
	}
	if field.Structured != nil {
		return stringsOrEmpty(field.Structured.Steps)
	}
	return []string{}
}

func weakKeywords(info RawMissingInformation) []string {
	if len(info.Skills) > 0 {
		return stringsOrEmpty(info.Skills)
	}
	return stringsOrEmpty(info.Keywords)
}

func mapScoreExplanation(field ScoreExplanationField) *ScoreExplanationPayload {
	explanation := field.Structured
	if explanation == nil {
		return nil
	}
	components := make([]ScoreComponentPayload, 0, len(explanation.Components))
	for _, c := range explanation.Components {
		id, _ := firstString(c.Key, c.ID)
		components = append(components, ScoreComponentPayload{
			ID:          id,
			Key:         c.Key.Value,
			Title:       c.Title.Value,
			Label:       c.Label.Value,
			Score:       optNumberPtr(c.Score),
			Weight:      optNumberPtr(c.Weight),
			Explanation: c.Explanation.Value,
			Helped:      stringsOrEmpty(c.Helped),
			Dragged:     stringsOrEmpty(c.Dragged),
		})
	}
	return &ScoreExplanationPayload{
		TotalScore: optNumberPtr(explanation.TotalScore),
		Components: components,
	}
}

func optNumberPtr(n OptNumber) *float64 {
	if !n.Set {
		return nil
	}
	v := n.Value
	return &v
}
