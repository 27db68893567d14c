package analysis

import (
	"reflect"
	"testing"
)

func assertCanonicalComponents(t *testing.T, explanation ScoreExplanation) {
	t.Helper()
	if len(explanation.Components) != 4 {
		t.Fatalf("expected 4 components, got %d", len(explanation.Components))
	}
	want := map[ScoreComponentID]bool{
		ComponentATSReadability:      true,
		ComponentSkillMatch:          true,
		ComponentExperienceRelevance: true,
		ComponentResumeStructure:     true,
	}
	for _, c := range explanation.Components {
		if !want[c.ID] {
			t.Fatalf("unexpected or duplicate component id %q", c.ID)
		}
		delete(want, c.ID)
		if c.Score < 0 || c.Score > 100 {
			t.Fatalf("component %q score out of range: %d", c.ID, c.Score)
		}
		if c.HelpedBy == nil || c.DraggedBy == nil {
			t.Fatalf("component %q has nil lists", c.ID)
		}
	}
}

func TestBuildScoreExplanationUsesBackendBreakdown(t *testing.T) {
	a := FromBackendResult(decode(t, `{"ats":{"score":77,"scoreExplanation":{"components":[
	  {"id":"ats_readability","label":"ATS Readability & Parsability","score":81,"weight":20,"helped":["Clear headings"],"dragged":["Two-column layout"]},
	  {"key":"skills","title":"Skills","score":64.6,"weight":35},
	  {"label":"Experience impact","score":120,"weight":30},
	  {"label":"Formatting","score":70,"weight":15}
	]}}}`))

	got := BuildScoreExplanation(a)
	assertCanonicalComponents(t, got)
	if got.TotalScore != 77 {
		t.Fatalf("expected total from final score, got %d", got.TotalScore)
	}

	ats := got.Components[0]
	if ats.ID != ComponentATSReadability || ats.Title != "ATS Readability & Parsability" || ats.Weight != 20 {
		t.Fatalf("unexpected ats component %#v", ats)
	}
	if !reflect.DeepEqual(ats.HelpedBy, []string{"Clear headings"}) || !reflect.DeepEqual(ats.DraggedBy, []string{"Two-column layout"}) {
		t.Fatalf("unexpected ats lists %#v", ats)
	}
	if got.Components[1].ID != ComponentSkillMatch || got.Components[1].Score != 65 {
		t.Fatalf("unexpected skill component %#v", got.Components[1])
	}
	if got.Components[2].ID != ComponentExperienceRelevance || got.Components[2].Score != 100 {
		t.Fatalf("unexpected experience component %#v", got.Components[2])
	}
	if got.Components[3].ID != ComponentResumeStructure {
		t.Fatalf("unexpected structure component %#v", got.Components[3])
	}
}

func TestBuildScoreExplanationPrefersBackendTotal(t *testing.T) {
	a := FromBackendResult(decode(t, `{"ats":{"score":50,"scoreExplanation":{"totalScore":91,"components":[
	  {"id":"ats"},{"id":"skill"},{"id":"experience"},{"id":"structure"}
	]}}}`))
	got := BuildScoreExplanation(a)
	if got.TotalScore != 91 {
		t.Fatalf("expected backend total 91, got %d", got.TotalScore)
	}
	if got.Components[0].Title != "Score component" || got.Components[0].Explanation != "Score provided by the analysis engine." {
		t.Fatalf("unexpected defaults %#v", got.Components[0])
	}
}

func TestBuildScoreExplanationSynthesizesWhenIncomplete(t *testing.T) {
	a := FromBackendResult(decode(t, `{"ats":{"score":70,"scoreExplanation":{"components":[{"id":"skills","score":10}]}}}`))
	got := BuildScoreExplanation(a)
	assertCanonicalComponents(t, got)
	for _, c := range got.Components {
		if c.Score != 70 {
			t.Fatalf("expected clean components rescaled to 70, got %q=%d", c.ID, c.Score)
		}
	}
}

func TestBuildScoreExplanationRejectsDuplicateIDs(t *testing.T) {
	a := FromBackendResult(decode(t, `{"ats":{"score":40,"scoreExplanation":{"components":[
	  {"label":"Skills A"},{"label":"Skills B"},{"label":"Experience"},{"label":"Structure"}
	]}}}`))
	got := BuildScoreExplanation(a)
	assertCanonicalComponents(t, got)
	if got.Components[0].Title != "ATS Readability" {
		t.Fatalf("expected synthesized components, got %#v", got.Components[0])
	}
}

func TestBuildScoreExplanationSynthesizedSignals(t *testing.T) {
	a := FromBackendResult(decode(t, `{
	  "ats": {
	    "score": 60,
	    "missingKeywords": ["Kafka", "Terraform"],
	    "formattingIssues": [
	      {"id": "parse-1", "title": "Images in resume", "severity": "high", "message": "Logos cannot be parsed"},
	      {"id": "len-1", "title": "Resume length", "severity": "medium", "message": "Three pages"}
	    ]
	  },
	  "bulletRewrites": [{"before": "a", "after": "b"}],
	  "missingInformation": {"skills": ["Go"]}
	}`))
	got := BuildScoreExplanation(a)
	assertCanonicalComponents(t, got)
	if got.TotalScore != 60 {
		t.Fatalf("expected total 60, got %d", got.TotalScore)
	}

	byID := map[ScoreComponentID]ScoreComponent{}
	for _, c := range got.Components {
		byID[c.ID] = c
	}
	if !reflect.DeepEqual(byID[ComponentATSReadability].DraggedBy, []string{"Images in resume: Logos cannot be parsed"}) {
		t.Fatalf("unexpected ats drag %v", byID[ComponentATSReadability].DraggedBy)
	}
	if !reflect.DeepEqual(byID[ComponentResumeStructure].DraggedBy, []string{"Resume length: Three pages"}) {
		t.Fatalf("unexpected structure drag %v", byID[ComponentResumeStructure].DraggedBy)
	}
	skill := byID[ComponentSkillMatch]
	if !reflect.DeepEqual(skill.DraggedBy, []string{"Missing: Kafka, Terraform", "Low emphasis: Go"}) {
		t.Fatalf("unexpected skill drag %v", skill.DraggedBy)
	}
	if !reflect.DeepEqual(skill.HelpedBy, []string{"Several skills align with the job description."}) {
		t.Fatalf("unexpected skill help %v", skill.HelpedBy)
	}

	weighted := 0.0
	for _, c := range got.Components {
		weighted += float64(c.Score) * c.Weight
	}
	if weighted < 57 || weighted > 63 {
		t.Fatalf("expected weighted sum to track 60, got %v", weighted)
	}
}

func TestBuildScoreExplanationZeroTarget(t *testing.T) {
	got := BuildScoreExplanation(FromBackendResult(decode(t, `{}`)))
	assertCanonicalComponents(t, got)
	if got.TotalScore != 0 {
		t.Fatalf("expected 0 total, got %d", got.TotalScore)
	}
	for _, c := range got.Components {
		if c.Score != 0 {
			t.Fatalf("expected components scaled to 0, got %q=%d", c.ID, c.Score)
		}
	}
}

func TestInferComponentID(t *testing.T) {
	cases := map[string]ScoreComponentID{
		"Skills coverage":    ComponentSkillMatch,
		"Experience fit":     ComponentExperienceRelevance,
		"Resume structure":   ComponentResumeStructure,
		"Formatting":         ComponentResumeStructure,
		"Parsability":        ComponentATSReadability,
		"Skill & experience": ComponentSkillMatch,
	}
	for title, want := range cases {
		if got := inferComponentID("", title); got != want {
			t.Fatalf("inferComponentID(%q): expected %q, got %q", title, want, got)
		}
	}
}
