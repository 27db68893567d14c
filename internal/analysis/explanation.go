package analysis

import (
	"fmt"
	"strings"
)

// ScoreComponentID is one of the four canonical score components.
type ScoreComponentID string

const (
	ComponentATSReadability      ScoreComponentID = "ats_readability"
	ComponentSkillMatch          ScoreComponentID = "skill_match"
	ComponentExperienceRelevance ScoreComponentID = "experience_relevance"
	ComponentResumeStructure     ScoreComponentID = "resume_structure"
)

// componentCount is the number of components every explanation carries.
const componentCount = 4

type ScoreComponent struct {
	ID          ScoreComponentID `json:"id"`
	Title       string           `json:"title"`
	Score       int              `json:"score"`
	Weight      float64          `json:"weight"`
	Explanation string           `json:"explanation"`
	HelpedBy    []string         `json:"helpedBy"`
	DraggedBy   []string         `json:"draggedBy"`
}

type ScoreExplanation struct {
	TotalScore int              `json:"totalScore"`
	Components []ScoreComponent `json:"components"`
}

var severityPenalty = map[Severity]int{
	SeverityLow:    5,
	SeverityMedium: 12,
	SeverityHigh:   22,
}

var formattingTokens = []string{"format", "length", "layout", "section", "spacing", "font", "header", "contact"}

// BuildScoreExplanation returns a four-component breakdown of the analysis score.
// A complete backend breakdown is trusted as-is; anything else is synthesized
// from the checks, keywords and bullet suggestions and rescaled to the final score.
func BuildScoreExplanation(a AnalysisResponse) ScoreExplanation {
	if explanation, ok := mapBackendExplanation(a.ScoreExplanation, a.FinalScore); ok {
		return explanation
	}

	var formatting, readability []AtsCheck
	for _, check := range a.AtsChecks {
		if isFormattingCheck(check) {
			formatting = append(formatting, check)
		} else {
			readability = append(readability, check)
		}
	}

	components := []ScoreComponent{
		atsComponent(readability),
		skillComponent(a.MissingKeywords, a.WeakKeywords),
		experienceComponent(a.BulletSuggestions),
		structureComponent(formatting),
	}

	target := clampScore(float64(a.FinalScore))
	return ScoreExplanation{
		TotalScore: target,
		Components: scaleToTarget(components, target),
	}
}

func mapBackendExplanation(payload *ScoreExplanationPayload, fallbackTotal int) (ScoreExplanation, bool) {
	if payload == nil || len(payload.Components) != componentCount {
		return ScoreExplanation{}, false
	}

	seen := make(map[ScoreComponentID]bool, componentCount)
	components := make([]ScoreComponent, 0, componentCount)
	for _, c := range payload.Components {
		id := inferComponentID(firstNonEmpty(c.ID, c.Key), firstNonEmpty(c.Label, c.Title))
		if seen[id] {
			return ScoreExplanation{}, false
		}
		seen[id] = true

		score, weight := 0, 0.0
		if c.Score != nil {
			score = clampScore(*c.Score)
		}
		if c.Weight != nil {
			weight = *c.Weight
		}
		components = append(components, ScoreComponent{
			ID:          id,
			Title:       fallbackString(firstNonEmpty(c.Label, c.Title), "Score component"),
			Score:       score,
			Weight:      weight,
			Explanation: fallbackString(c.Explanation, "Score provided by the analysis engine."),
			HelpedBy:    stringsOrEmpty(c.Helped),
			DraggedBy:   stringsOrEmpty(c.Dragged),
		})
	}

	total := fallbackTotal
	if payload.TotalScore != nil {
		total = clampScore(*payload.TotalScore)
	}
	return ScoreExplanation{TotalScore: total, Components: components}, true
}

func inferComponentID(id, title string) ScoreComponentID {
	token := strings.ToLower(id + " " + title)
	switch {
	case strings.Contains(token, "skill"):
		return ComponentSkillMatch
	case strings.Contains(token, "experience"):
		return ComponentExperienceRelevance
	case strings.Contains(token, "structure"), strings.Contains(token, "format"):
		return ComponentResumeStructure
	default:
		return ComponentATSReadability
	}
}

func isFormattingCheck(check AtsCheck) bool {
	token := strings.ToLower(check.ID + " " + check.Title)
	for _, key := range formattingTokens {
		if strings.Contains(token, key) {
			return true
		}
	}
	return false
}

func checksPenaltyScore(checks []AtsCheck) int {
	penalty := 0
	for _, check := range checks {
		penalty += severityPenalty[MapSeverity(string(check.Severity))]
	}
	return clampScore(float64(100 - penalty))
}

func summarizeChecks(checks []AtsCheck) []string {
	out := make([]string, 0, min(len(checks), 3))
	for _, check := range checks {
		if len(out) == 3 {
			break
		}
		out = append(out, fmt.Sprintf("%s: %s", check.Title, check.Message))
	}
	return out
}

func atsComponent(checks []AtsCheck) ScoreComponent {
	helped := []string{"No ATS readability issues were detected."}
	if len(checks) > 0 {
		helped = []string{"Most formatting and parsing rules are met."}
	}
	return ScoreComponent{
		ID:          ComponentATSReadability,
		Title:       "ATS Readability",
		Weight:      0.25,
		Score:       checksPenaltyScore(checks),
		Explanation: "Measures how easily automated screeners can read your resume.",
		HelpedBy:    helped,
		DraggedBy:   summarizeChecks(checks),
	}
}

func structureComponent(checks []AtsCheck) ScoreComponent {
	helped := []string{"Layout and length look ATS-friendly."}
	if len(checks) > 0 {
		helped = []string{"Key sections are present and labeled."}
	}
	return ScoreComponent{
		ID:          ComponentResumeStructure,
		Title:       "Resume Structure",
		Weight:      0.15,
		Score:       checksPenaltyScore(checks),
		Explanation: "Checks layout, length, and section clarity.",
		HelpedBy:    helped,
		DraggedBy:   summarizeChecks(checks),
	}
}

func skillComponent(missing, weak []string) ScoreComponent {
	helped := []string{}
	dragged := []string{}
	if len(missing) == 0 {
		helped = append(helped, "All required skills appear in the resume.")
	}
	if len(weak) == 0 {
		helped = append(helped, "Skills are backed by clear context.")
	}
	if len(missing) > 0 {
		dragged = append(dragged, "Missing: "+strings.Join(missing[:min(len(missing), 5)], ", "))
	}
	if len(weak) > 0 {
		dragged = append(dragged, "Low emphasis: "+strings.Join(weak[:min(len(weak), 5)], ", "))
	}
	if len(helped) == 0 {
		helped = append(helped, "Several skills align with the job description.")
	}
	return ScoreComponent{
		ID:          ComponentSkillMatch,
		Title:       "Skill Match",
		Weight:      0.35,
		Score:       clampScore(float64(100 - len(missing)*10 - len(weak)*5)),
		Explanation: "Compares your listed skills to the job requirements.",
		HelpedBy:    helped,
		DraggedBy:   dragged,
	}
}

func experienceComponent(suggestions []BulletSuggestion) ScoreComponent {
	helped := []string{"Experience bullets show clear impact."}
	dragged := []string{}
	if len(suggestions) > 0 {
		helped = []string{"Some bullets already include measurable outcomes."}
		dragged = []string{"Several bullets need stronger results or metrics."}
	}
	return ScoreComponent{
		ID:          ComponentExperienceRelevance,
		Title:       "Experience Relevance",
		Weight:      0.25,
		Score:       clampScore(float64(100 - min(50, len(suggestions)*12))),
		Explanation: "Looks for clear, measurable impact in your experience.",
		HelpedBy:    helped,
		DraggedBy:   dragged,
	}
}

// scaleToTarget rescales component scores so their weighted sum tracks target
// while keeping their proportions. A zero weighted sum is left unscaled.
func scaleToTarget(components []ScoreComponent, target int) []ScoreComponent {
	weighted := 0.0
	for _, c := range components {
		weighted += float64(c.Score) * c.Weight
	}
	if weighted <= 0 {
		return components
	}
	factor := float64(target) / weighted
	out := make([]ScoreComponent, len(components))
	for i, c := range components {
		c.Score = clampScore(float64(c.Score) * factor)
		out[i] = c
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
