package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrInvalidJSON is returned by DecodeRaw when the payload is not JSON at all.
var ErrInvalidJSON = errors.New("analysis result is not valid JSON")

// RawBackendResult is the loosely typed analysis payload returned by the remote
// analysis service. Every field is optional and tolerates the wrong JSON type.
type RawBackendResult struct {
	Meta               RawMeta                 `json:"meta"`
	Summary            RawSummary              `json:"summary"`
	ATS                RawATS                  `json:"ats"`
	Issues             List[RawIssue]          `json:"issues"`
	BulletRewrites     List[RawBulletRewrite]  `json:"bulletRewrites"`
	Recommendations    List[RawRecommendation] `json:"recommendations"`
	ActionPlan         ActionPlanField         `json:"actionPlan"`
	MissingInformation RawMissingInformation   `json:"missingInformation"`
}

type RawMeta struct {
	AnalysisID             OptString `json:"analysisId"`
	CreatedAt              OptString `json:"createdAt"`
	AnalysisMode           OptString `json:"analysisMode"`
	DocumentID             OptString `json:"documentId"`
	JobDescriptionProvided OptBool   `json:"jobDescriptionProvided"`
}

type RawSummary struct {
	Overview        OptString `json:"overview"`
	MatchScore      OptNumber `json:"matchScore"`
	MatchPercentage OptNumber `json:"matchPercentage"`
	Score           OptNumber `json:"score"`
	MatchedKeywords Strings   `json:"matchedKeywords"`
}

type RawScoreBreakdown struct {
	TotalScore   OptNumber `json:"totalScore"`
	OverallScore OptNumber `json:"overallScore"`
}

type RawScoreComponent struct {
	ID          OptString `json:"id"`
	Key         OptString `json:"key"`
	Title       OptString `json:"title"`
	Label       OptString `json:"label"`
	Score       OptNumber `json:"score"`
	Weight      OptNumber `json:"weight"`
	Explanation OptString `json:"explanation"`
	Helped      Strings   `json:"helped"`
	Dragged     Strings   `json:"dragged"`
}

type RawScoreExplanation struct {
	TotalScore OptNumber               `json:"totalScore"`
	Components List[RawScoreComponent] `json:"components"`
}

type RawATS struct {
	Score            OptNumber             `json:"score"`
	ScoreBreakdown   RawScoreBreakdown     `json:"scoreBreakdown"`
	ScoreReasoning   OptString             `json:"scoreReasoning"`
	ScoreExplanation ScoreExplanationField `json:"scoreExplanation"`
	MissingKeywords  MissingKeywordsField  `json:"missingKeywords"`
	MatchedKeywords  Strings               `json:"matchedKeywords"`
	FormattingIssues List[RawIssue]        `json:"formattingIssues"`
}

// RawIssue is shared by ats.formattingIssues and the top-level issues list;
// the two use different subsets of the fields.
type RawIssue struct {
	ID                OptString `json:"id"`
	Title             OptString `json:"title"`
	Severity          OptString `json:"severity"`
	Message           OptString `json:"message"`
	Detail            OptString `json:"detail"`
	Section           OptString `json:"section"`
	Problem           OptString `json:"problem"`
	Suggestion        OptString `json:"suggestion"`
	WhyItMatters      OptString `json:"whyItMatters"`
	RequiresUserInput Strings   `json:"requiresUserInput"`
	Priority          OptNumber `json:"priority"`
}

type RawBulletRewrite struct {
	Original           OptString `json:"original"`
	Rewrite            OptString `json:"rewrite"`
	Reason             OptString `json:"reason"`
	Before             OptString `json:"before"`
	After              OptString `json:"after"`
	Rationale          OptString `json:"rationale"`
	Section            OptString `json:"section"`
	ClaimSupport       OptString `json:"claimSupport"`
	PlaceholdersNeeded Strings   `json:"placeholdersNeeded"`
	MetricsSource      OptString `json:"metricsSource"`
}

type RawRecommendation struct {
	ID       OptString `json:"id"`
	Title    OptString `json:"title"`
	Summary  OptString `json:"summary"`
	Action   OptString `json:"action"`
	Details  OptString `json:"details"`
	Severity OptString `json:"severity"`
	Category OptString `json:"category"`
	Order    OptNumber `json:"order"`
}

type RawActionPlan struct {
	Steps        Strings `json:"steps"`
	QuickWins    Strings `json:"quickWins"`
	MediumEffort Strings `json:"mediumEffort"`
	DeepFixes    Strings `json:"deepFixes"`
}

type RawMissingInformation struct {
	Skills   Strings `json:"skills"`
	Keywords Strings `json:"keywords"`
	Notes    Strings `json:"notes"`
}

type RawKeywordBuckets struct {
	FromJobDescription Strings `json:"fromJobDescription"`
	IndustryCommon     Strings `json:"industryCommon"`
}

// MissingKeywordsField is ats.missingKeywords: either a flat list or buckets.
type MissingKeywordsField struct {
	Flat    []string
	Buckets *RawKeywordBuckets
}

// ActionPlanField is actionPlan: either a flat list of steps or a structured plan.
type ActionPlanField struct {
	Steps      []string
	Structured *RawActionPlan
}

// ScoreExplanationField is ats.scoreExplanation: either free text or a breakdown.
type ScoreExplanationField struct {
	Text       *string
	Structured *RawScoreExplanation
}

// DecodeRaw parses a backend payload. Only bytes that are not JSON are
// rejected; any well-formed JSON value decodes, with unusable parts left empty.
func DecodeRaw(data []byte) (RawBackendResult, error) {
	if !json.Valid(data) {
		return RawBackendResult{}, ErrInvalidJSON
	}
	var out RawBackendResult
	if !isJSONObject(data) {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		// Unreachable while every field type is lenient; keep the result empty.
		return RawBackendResult{}, nil
	}
	return out, nil
}

func (m *MissingKeywordsField) UnmarshalJSON(data []byte) error {
	*m = MissingKeywordsField{}
	switch {
	case isJSONArray(data):
		var flat Strings
		_ = json.Unmarshal(data, &flat)
		m.Flat = stringsOrEmpty(flat)
	case isJSONObject(data):
		var buckets RawKeywordBuckets
		_ = json.Unmarshal(data, &buckets)
		m.Buckets = &buckets
	}
	return nil
}

func (p *ActionPlanField) UnmarshalJSON(data []byte) error {
	*p = ActionPlanField{}
	switch {
	case isJSONArray(data):
		var steps Strings
		_ = json.Unmarshal(data, &steps)
		p.Steps = stringsOrEmpty(steps)
	case isJSONObject(data):
		var plan RawActionPlan
		_ = json.Unmarshal(data, &plan)
		p.Structured = &plan
	}
	return nil
}

func (e *ScoreExplanationField) UnmarshalJSON(data []byte) error {
	*e = ScoreExplanationField{}
	switch {
	case isJSONString(data):
		var text string
		_ = json.Unmarshal(data, &text)
		e.Text = &text
	case isJSONObject(data):
		var structured RawScoreExplanation
		_ = json.Unmarshal(data, &structured)
		e.Structured = &structured
	}
	return nil
}

func (m *RawMeta) UnmarshalJSON(data []byte) error {
	type plain RawMeta
	var p plain
	decodeObject(data, &p)
	*m = RawMeta(p)
	return nil
}

func (s *RawSummary) UnmarshalJSON(data []byte) error {
	type plain RawSummary
	var p plain
	decodeObject(data, &p)
	*s = RawSummary(p)
	return nil
}

func (a *RawATS) UnmarshalJSON(data []byte) error {
	type plain RawATS
	var p plain
	decodeObject(data, &p)
	*a = RawATS(p)
	return nil
}

func (b *RawScoreBreakdown) UnmarshalJSON(data []byte) error {
	type plain RawScoreBreakdown
	var p plain
	decodeObject(data, &p)
	*b = RawScoreBreakdown(p)
	return nil
}

func (e *RawScoreExplanation) UnmarshalJSON(data []byte) error {
	type plain RawScoreExplanation
	var p plain
	decodeObject(data, &p)
	*e = RawScoreExplanation(p)
	return nil
}

func (c *RawScoreComponent) UnmarshalJSON(data []byte) error {
	type plain RawScoreComponent
	var p plain
	decodeObject(data, &p)
	*c = RawScoreComponent(p)
	return nil
}

func (i *RawIssue) UnmarshalJSON(data []byte) error {
	type plain RawIssue
	var p plain
	decodeObject(data, &p)
	*i = RawIssue(p)
	return nil
}

func (b *RawBulletRewrite) UnmarshalJSON(data []byte) error {
	type plain RawBulletRewrite
	var p plain
	decodeObject(data, &p)
	*b = RawBulletRewrite(p)
	return nil
}

func (r *RawRecommendation) UnmarshalJSON(data []byte) error {
	type plain RawRecommendation
	var p plain
	decodeObject(data, &p)
	*r = RawRecommendation(p)
	return nil
}

func (p *RawActionPlan) UnmarshalJSON(data []byte) error {
	type plain RawActionPlan
	var v plain
	decodeObject(data, &v)
	*p = RawActionPlan(v)
	return nil
}

func (m *RawMissingInformation) UnmarshalJSON(data []byte) error {
	type plain RawMissingInformation
	var p plain
	decodeObject(data, &p)
	*m = RawMissingInformation(p)
	return nil
}

func (b *RawKeywordBuckets) UnmarshalJSON(data []byte) error {
	type plain RawKeywordBuckets
	var p plain
	decodeObject(data, &p)
	*b = RawKeywordBuckets(p)
	return nil
}

// decodeObject fills v only when data is a JSON object. Field types are
// lenient, so a successful shape check means the decode cannot fail.
func decodeObject(data []byte, v any) {
	if !isJSONObject(data) {
		return
	}
	_ = json.Unmarshal(data, v)
}

func firstByte(data []byte) byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isJSONObject(data []byte) bool { return firstByte(data) == '{' }
func isJSONArray(data []byte) bool  { return firstByte(data) == '[' }
func isJSONString(data []byte) bool { return firstByte(data) == '"' }
