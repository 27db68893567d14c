package analysis

// Severity is the canonical three-level severity scale.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AnalysisMode identifies whether a job description took part in the analysis.
type AnalysisMode string

const (
	ModeResumeOnly AnalysisMode = "resume_only"
	ModeJobMatch   AnalysisMode = "job_match"
)

// AnalysisResponse is the canonical analysis model. List fields are never nil.
type AnalysisResponse struct {
	AnalysisID            string                   `json:"analysisId"`
	CreatedAt             string                   `json:"createdAt"`
	FinalScore            int                      `json:"finalScore"`
	MatchScore            int                      `json:"matchScore"`
	AnalysisMode          AnalysisMode             `json:"analysisMode"`
	ScoreExplanation      *ScoreExplanationPayload `json:"scoreExplanation,omitempty"`
	MissingKeywords       []string                 `json:"missingKeywords"`
	MissingKeywordBuckets *MissingKeywordBuckets   `json:"missingKeywordBuckets,omitempty"`
	WeakKeywords          []string                 `json:"weakKeywords"`
	MatchedKeywords       []string                 `json:"matchedKeywords"`
	AtsChecks             []AtsCheck               `json:"atsChecks"`
	BulletSuggestions     []BulletSuggestion       `json:"bulletSuggestions"`
	Recommendations       []RecommendationItem     `json:"recommendations"`
	Issues                []IssueItem              `json:"issues"`
	ActionPlan            ActionPlan               `json:"actionPlan"`
	Summary               string                   `json:"summary"`
	NextSteps             []string                 `json:"nextSteps"`
}

type AtsCheck struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

type BulletSuggestion struct {
	Original           string   `json:"original"`
	Suggested          string   `json:"suggested"`
	Reason             string   `json:"reason"`
	Section            string   `json:"section,omitempty"`
	ClaimSupport       string   `json:"claimSupport,omitempty"`
	PlaceholdersNeeded []string `json:"placeholdersNeeded"`
	MetricsSource      string   `json:"metricsSource,omitempty"`
}

// RecommendationItem severity uses the info/warning/critical vocabulary.
type RecommendationItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Action   string `json:"action,omitempty"`
	Details  string `json:"details,omitempty"`
	Severity string `json:"severity"`
	Category string `json:"category"`
	Order    int    `json:"order"`
}

// IssueItem keeps the backend severity string as-is.
type IssueItem struct {
	Section           string   `json:"section"`
	Problem           string   `json:"problem"`
	Suggestion        string   `json:"suggestion"`
	WhyItMatters      string   `json:"whyItMatters,omitempty"`
	RequiresUserInput []string `json:"requiresUserInput"`
	Severity          string   `json:"severity"`
	Priority          int      `json:"priority"`
}

type ActionPlan struct {
	QuickWins    []string `json:"quickWins"`
	MediumEffort []string `json:"mediumEffort"`
	DeepFixes    []string `json:"deepFixes"`
}

type MissingKeywordBuckets struct {
	FromJobDescription []string `json:"fromJobDescription"`
	IndustryCommon     []string `json:"industryCommon"`
}

// ScoreExplanationPayload is the backend breakdown carried through unreduced.
type ScoreExplanationPayload struct {
	TotalScore *float64                `json:"totalScore,omitempty"`
	Components []ScoreComponentPayload `json:"components"`
}

type ScoreComponentPayload struct {
	ID          string   `json:"id,omitempty"`
	Key         string   `json:"key,omitempty"`
	Title       string   `json:"title,omitempty"`
	Label       string   `json:"label,omitempty"`
	Score       *float64 `json:"score,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Helped      []string `json:"helped"`
	Dragged     []string `json:"dragged"`
}
