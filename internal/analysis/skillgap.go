package analysis

import (
	"fmt"
	"sort"
	"strings"
)

type SkillGapCategory string

const (
	SkillGapMissingJD         SkillGapCategory = "missing_jd"
	SkillGapSuggestedIndustry SkillGapCategory = "suggested_industry"
)

type SkillGapSkill struct {
	Name           string           `json:"name"`
	Category       SkillGapCategory `json:"category"`
	Reason         string           `json:"reason"`
	Recommendation string           `json:"recommendation,omitempty"`
}

type SkillGapModel struct {
	MissingFromJobDescription []SkillGapSkill `json:"missingFromJobDescription"`
	SuggestedIndustryCommon   []SkillGapSkill `json:"suggestedIndustryCommon"`
	Recommendations           []string        `json:"recommendations"`
}

// keywordKind classifies a keyword for phrasing and placement guidance.
type keywordKind int

const (
	kindUnknown keywordKind = iota
	kindTool
	kindActivity
	kindSoftSkill
)

// Tools match whole words; activities and soft skills match word prefixes so
// "test" covers "testing" and "communicat" covers "communication".
var (
	toolVocabulary = []string{
		"aws", "azure", "gcp", "docker", "kubernetes", "k8s", "terraform", "ansible", "jenkins",
		"git", "github", "gitlab", "jira", "confluence", "linux", "sql", "postgresql", "postgres",
		"mysql", "mongodb", "redis", "kafka", "rabbitmq", "spark", "hadoop", "airflow", "snowflake",
		"tableau", "power bi", "excel", "salesforce", "sap", "figma", "react", "angular", "vue",
		"node", "node.js", "python", "java", "go", "golang", "rust", "c++", "c#", ".net",
		"typescript", "javascript", "graphql", "grpc", "rest", "pandas", "tensorflow", "pytorch",
	}
	activityVocabulary = []string{
		"test", "automat", "deploy", "migrat", "monitor", "optimiz", "design", "architect",
		"analy", "ci", "cd", "agile", "scrum", "budget", "forecast", "report", "recruit",
		"onboard", "troubleshoot", "debug", "integrat", "scal", "secur", "model", "research",
		"plan", "project manag", "product manag", "devops", "observability", "incident",
	}
	softSkillVocabulary = []string{
		"leader", "lead", "communicat", "collaborat", "mentor", "stakeholder", "negotiat",
		"present", "teamwork", "problem solving", "ownership", "coach", "cross-functional",
	}
)

var skillGapCopy = struct {
	missingReason, suggestedReason, missingRec, suggestedRec string
}{
	missingReason:   "Appears in the job description but not in your resume.",
	suggestedReason: "Common in similar roles, but not listed on your resume yet.",
	missingRec:      "If you have experience, add it to Skills or Projects. If not, focus on adjacent strengths.",
	suggestedRec:    "Consider adding it only if it reflects your real experience.",
}

// RankKeywords orders keywords so those referenced by an issue problem or a
// recommendation title/action come first, keeping the original order within
// each group, then drops case-insensitive duplicates keeping the first.
func RankKeywords(keywords []string, issues []IssueItem, recommendations []RecommendationItem) []string {
	corpus := make([]string, 0, len(issues)+2*len(recommendations))
	for _, issue := range issues {
		corpus = append(corpus, strings.ToLower(issue.Problem))
	}
	for _, rec := range recommendations {
		corpus = append(corpus, strings.ToLower(rec.Title), strings.ToLower(rec.Action))
	}

	type ranked struct {
		keyword  string
		priority int
	}
	items := make([]ranked, 0, len(keywords))
	for _, keyword := range keywords {
		priority := 0
		if isReferenced(strings.ToLower(keyword), corpus) {
			priority = 1
		}
		items = append(items, ranked{keyword: keyword, priority: priority})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].priority > items[j].priority
	})

	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item.keyword)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item.keyword)
	}
	return out
}

func isReferenced(keyword string, corpus []string) bool {
	if keyword == "" {
		return false
	}
	for _, text := range corpus {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// ExamplePhrasing suggests a bullet template that demonstrates keyword.
func ExamplePhrasing(keyword string) string {
	switch classifyKeyword(keyword) {
	case kindTool:
		return fmt.Sprintf("Used %s to build or improve [system/process], reducing [time/cost/errors] by [X]%%.", keyword)
	case kindActivity:
		return fmt.Sprintf("Led %s work on [project], improving [metric] from [before] to [after].", keyword)
	case kindSoftSkill:
		return fmt.Sprintf("Showed %s by [specific situation], resulting in [outcome for team or customer].", keyword)
	default:
		return fmt.Sprintf("Applied %s in [project or role] to deliver [measurable outcome].", keyword)
	}
}

// PlacementSuggestion says where in the resume keyword belongs. A section named
// by an issue that mentions the keyword takes precedence over the generic advice.
func PlacementSuggestion(keyword string, issues []IssueItem) string {
	lower := strings.ToLower(keyword)
	for _, issue := range issues {
		section := strings.TrimSpace(issue.Section)
		if section == "" || strings.EqualFold(section, "General") {
			continue
		}
		if lower != "" && strings.Contains(strings.ToLower(issue.Problem), lower) {
			return fmt.Sprintf("Add %s to your %s section, where the analysis flagged the gap.", keyword, section)
		}
	}
	switch classifyKeyword(keyword) {
	case kindTool:
		return fmt.Sprintf("List %s under Skills/Tools and back it with one Experience bullet that shows it in use.", keyword)
	case kindActivity:
		return fmt.Sprintf("Work %s into an Experience bullet that describes what you delivered.", keyword)
	case kindSoftSkill:
		return fmt.Sprintf("Show %s through a concrete example in Experience or Summary rather than listing it.", keyword)
	default:
		return fmt.Sprintf("Add %s to Skills if accurate, and support it with one proof bullet in Experience.", keyword)
	}
}

// FindKeywordRecommendation returns the first recommendation about keywords, or nil.
func FindKeywordRecommendation(recommendations []RecommendationItem) *RecommendationItem {
	for i := range recommendations {
		rec := recommendations[i]
		token := strings.ToLower(rec.ID + " " + rec.Title + " " + rec.Category)
		if strings.Contains(token, "keyword") {
			return &rec
		}
	}
	return nil
}

// JobDescriptionKeywords returns the keywords missing relative to the job
// description: the bucketed list when present, the flat list otherwise.
func JobDescriptionKeywords(a AnalysisResponse) []string {
	if a.MissingKeywordBuckets != nil {
		return stringsOrEmpty(a.MissingKeywordBuckets.FromJobDescription)
	}
	return stringsOrEmpty(a.MissingKeywords)
}

// BuildSkillGapModel splits bucketed missing keywords into job-description gaps
// and industry suggestions.
func BuildSkillGapModel(a AnalysisResponse) SkillGapModel {
	var fromJD, industry []string
	if a.MissingKeywordBuckets != nil {
		fromJD = a.MissingKeywordBuckets.FromJobDescription
		industry = a.MissingKeywordBuckets.IndustryCommon
	}

	missing := make([]SkillGapSkill, 0, len(fromJD))
	for _, skill := range fromJD {
		missing = append(missing, SkillGapSkill{
			Name:           skill,
			Category:       SkillGapMissingJD,
			Reason:         skillGapCopy.missingReason,
			Recommendation: skillGapCopy.missingRec,
		})
	}
	suggested := make([]SkillGapSkill, 0, len(industry))
	for _, skill := range industry {
		suggested = append(suggested, SkillGapSkill{
			Name:           skill,
			Category:       SkillGapSuggestedIndustry,
			Reason:         skillGapCopy.suggestedReason,
			Recommendation: skillGapCopy.suggestedRec,
		})
	}

	return SkillGapModel{
		MissingFromJobDescription: missing,
		SuggestedIndustryCommon:   suggested,
		Recommendations: []string{
			"Prioritize missing skills you can honestly claim.",
			"Add suggested skills only when they match your real experience.",
			"Keep the list truthful and specific.",
		},
	}
}

func classifyKeyword(keyword string) keywordKind {
	words := keywordWords(keyword)
	if len(words) == 0 {
		return kindUnknown
	}
	padded := " " + strings.Join(words, " ") + " "
	for _, term := range toolVocabulary {
		if strings.Contains(padded, " "+term+" ") {
			return kindTool
		}
	}
	for _, term := range softSkillVocabulary {
		if strings.Contains(padded, " "+term) {
			return kindSoftSkill
		}
	}
	for _, term := range activityVocabulary {
		if strings.Contains(padded, " "+term) {
			return kindActivity
		}
	}
	return kindUnknown
}

// keywordWords lowercases keyword and splits it on anything that is not part
// of a technology name.
func keywordWords(keyword string) []string {
	return strings.FieldsFunc(strings.ToLower(keyword), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return false
		case r == '+', r == '#', r == '.', r == '-':
			return false
		default:
			return true
		}
	})
}
