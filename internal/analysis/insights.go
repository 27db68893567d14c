package analysis

import (
	"fmt"
	"strings"
)

type InsightItem struct {
	ID            string `json:"id"`
	Severity      string `json:"severity"`
	Title         string `json:"title"`
	Explanation   string `json:"explanation"`
	ActionableTip string `json:"actionable_tip"`
}

type InsightSection struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Insights []InsightItem `json:"insights"`
}

type InsightsModel struct {
	Sections []InsightSection `json:"sections"`
}

// MapAnalysisToInsights groups the analysis into five fixed report sections.
func MapAnalysisToInsights(a AnalysisResponse) InsightsModel {
	atsInsights := []InsightItem{}
	formattingInsights := []InsightItem{}
	for _, check := range a.AtsChecks {
		if isFormattingCheck(check) {
			formattingInsights = append(formattingInsights, checkInsight(check, "formatting"))
		} else {
			atsInsights = append(atsInsights, checkInsight(check, "ats"))
		}
	}

	skills := append(keywordInsights(a.MissingKeywords, "missing"), keywordInsights(a.WeakKeywords, "weak")...)

	content := []InsightItem{matchInsight(a.MatchScore)}
	for i, step := range a.NextSteps {
		content = append(content, InsightItem{
			ID:            fmt.Sprintf("content-next-step-%d", i+1),
			Severity:      "info",
			Title:         "Recommended improvement",
			Explanation:   "A quick change that can improve your match score.",
			ActionableTip: step,
		})
	}

	experience := make([]InsightItem, 0, len(a.BulletSuggestions))
	for i, suggestion := range a.BulletSuggestions {
		experience = append(experience, InsightItem{
			ID:            fmt.Sprintf("impact-bullet-%d", i+1),
			Severity:      "warning",
			Title:         "Add measurable impact to a bullet",
			Explanation:   "At least one experience bullet lacks a clear result or scale.",
			ActionableTip: "Rewrite it to include numbers or outcomes, for example: " + suggestion.Suggested,
		})
	}

	return InsightsModel{Sections: []InsightSection{
		{ID: "ats-compatibility", Title: "ATS Compatibility", Insights: atsInsights},
		{ID: "content-quality", Title: "Content Quality", Insights: content},
		{ID: "experience-impact", Title: "Experience & Impact", Insights: experience},
		{ID: "skills-coverage", Title: "Skills Coverage", Insights: skills},
		{ID: "formatting-structure", Title: "Formatting & Structure", Insights: formattingInsights},
	}}
}

func checkInsight(check AtsCheck, bucket string) InsightItem {
	return InsightItem{
		ID:            bucket + "-" + check.ID,
		Severity:      recommendationSeverity(MapSeverity(string(check.Severity))),
		Title:         check.Title,
		Explanation:   check.Message,
		ActionableTip: checkTip(check),
	}
}

func checkTip(check AtsCheck) string {
	token := strings.ToLower(check.ID + " " + check.Title)
	switch {
	case strings.Contains(token, "length"):
		return "Keep the resume to 1-2 pages unless you have extensive experience."
	case strings.Contains(token, "format"), strings.Contains(token, "layout"):
		return "Use simple headings, standard fonts, and avoid tables or graphics."
	case strings.Contains(token, "header"), strings.Contains(token, "contact"):
		return "Place contact details in plain text at the top of the first page."
	default:
		return "Adjust this area so screening systems can read it clearly."
	}
}

func matchInsight(score int) InsightItem {
	severity, title := "critical", "Low overall match"
	switch {
	case score >= 80:
		severity, title = "info", "Strong overall match"
	case score >= 60:
		severity, title = "warning", "Moderate overall match"
	}
	return InsightItem{
		ID:            "content-match-score",
		Severity:      severity,
		Title:         title,
		Explanation:   fmt.Sprintf("Your resume matches about %d%% of the role requirements.", score),
		ActionableTip: "Prioritize the missing and weak skills, then align project language to the job post.",
	}
}

func keywordInsights(keywords []string, kind string) []InsightItem {
	out := make([]InsightItem, 0, len(keywords))
	for _, keyword := range keywords {
		item := InsightItem{ID: "skill-" + kind + "-" + slugify(keyword)}
		if kind == "missing" {
			item.Severity = "warning"
			if len(keywords) >= 5 {
				item.Severity = "critical"
			}
			item.Title = "Missing skill: " + keyword
			item.Explanation = "This skill appears in the job description but not in your resume."
			item.ActionableTip = "Add it where you have real experience or remove it if it does not apply."
		} else {
			item.Severity = "info"
			if len(keywords) >= 5 {
				item.Severity = "warning"
			}
			item.Title = "Low emphasis: " + keyword
			item.Explanation = "This skill is mentioned but not tied to clear work or results."
			item.ActionableTip = "Link it to a project, tool, or outcome to make it stronger."
		}
		out = append(out, item)
	}
	return out
}

func slugify(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), "-")
}
