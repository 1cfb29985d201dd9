package model_test

import (
	"strings"
	"testing"

	"lovereel/internal/apierr"
	"lovereel/internal/model"
	"lovereel/internal/testutil"
)

func TestCreationRequestValidate_Accepts(t *testing.T) {
	if err := testutil.SampleRequest().Validate(); err != nil {
		t.Fatalf("expected sample request to validate, got %v", err)
	}
}

func TestCreationRequestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(r *model.CreationRequest)
		want   string
	}{
		{"two memories", func(r *model.CreationRequest) { r.Memories = r.Memories[:2] }, "memories must contain exactly 3"},
		{"four qa", func(r *model.CreationRequest) {
			r.PersonalQA = append(r.PersonalQA, model.QAPair{Question: "q", Answer: "a"})
		}, "personal_qa must contain exactly 3"},
		{"blank title", func(r *model.CreationRequest) { r.Memories[1].Title = "   " }, "memories[1].title must not be empty"},
		{"short description", func(r *model.CreationRequest) { r.Memories[0].Description = "  too short " }, "memories[0].description must be longer than 10"},
		{"empty answer", func(r *model.CreationRequest) { r.PersonalQA[2].Answer = "" }, "personal_qa[2].answer must not be empty"},
		{"nil memories", func(r *model.CreationRequest) { r.Memories = nil }, "memories must contain exactly 3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.SampleRequest()
			tc.mutate(&req)
			err := req.Validate()
			if err == nil {
				t.Fatalf("expected validation failure")
			}
			if !apierr.Is(err, apierr.KindInputValidation) {
				t.Fatalf("expected input validation kind, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}

func TestValidateContent_Accepts(t *testing.T) {
	content, err := model.ValidateContent(testutil.RawContent(2))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(content.Scenes) != model.SceneCount {
		t.Fatalf("expected 5 scenes, got %d", len(content.Scenes))
	}
	seen := map[int]bool{}
	for _, s := range content.Scenes {
		seen[s.SceneNumber] = true
		if len(s.Quiz.Options) != model.OptionCount {
			t.Fatalf("expected 3 options, got %d", len(s.Quiz.Options))
		}
	}
	for n := 1; n <= model.SceneCount; n++ {
		if !seen[n] {
			t.Fatalf("missing scene number %d", n)
		}
	}
	if len(content.Bloopers) != 2 {
		t.Fatalf("expected 2 bloopers, got %d", len(content.Bloopers))
	}
}

func TestValidateContent_DuplicateOptionsAllowed(t *testing.T) {
	raw := testutil.RawContent(1)
	quiz := scene(raw, 0)["quiz"].(map[string]any)
	quiz["options"] = []any{"same", "same", "other"}

	if _, err := model.ValidateContent(raw); err != nil {
		t.Fatalf("duplicate options should be accepted, got %v", err)
	}
}

func TestValidateContent_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(raw map[string]any)
		want   string
	}{
		{"missing bloopers", func(raw map[string]any) { delete(raw, "bloopers") }, "missing required keys [bloopers]"},
		{"extra key", func(raw map[string]any) { raw["notes"] = "x" }, `unexpected key "notes"`},
		{"empty title", func(raw map[string]any) { raw["title"] = "" }, "title must be a non-empty string"},
		{"four scenes", func(raw map[string]any) { raw["scenes"] = raw["scenes"].([]any)[:4] }, "scenes: want 5, got 4"},
		{"no bloopers", func(raw map[string]any) { raw["bloopers"] = []any{} }, "bloopers: want at least 1"},
		{"two options", func(raw map[string]any) {
			scene(raw, 2)["quiz"].(map[string]any)["options"] = []any{"a", "b"}
		}, "scenes[2].quiz.options: want 3, got 2"},
		{"index out of range", func(raw map[string]any) {
			scene(raw, 1)["quiz"].(map[string]any)["correct_index"] = float64(3)
		}, "scenes[1].quiz.correct_index"},
		{"fractional index", func(raw map[string]any) {
			scene(raw, 1)["quiz"].(map[string]any)["correct_index"] = 1.5
		}, "scenes[1].quiz.correct_index"},
		{"duplicate scene number", func(raw map[string]any) { scene(raw, 3)["scene_number"] = float64(2) }, "duplicate scene_number 2"},
		{"gap in scene numbers", func(raw map[string]any) { scene(raw, 4)["scene_number"] = float64(6) }, "scenes[4].scene_number"},
		{"swapped order", func(raw map[string]any) {
			scene(raw, 0)["scene_number"] = float64(2)
			scene(raw, 1)["scene_number"] = float64(1)
		}, "out of order"},
		{"missing quiz", func(raw map[string]any) { delete(scene(raw, 0), "quiz") }, "scenes[0].quiz must be an object"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := testutil.RawContent(2)
			tc.mutate(raw)
			_, err := model.ValidateContent(raw)
			if err == nil {
				t.Fatalf("expected schema violation")
			}
			if !apierr.Is(err, apierr.KindSchemaViolation) {
				t.Fatalf("expected schema violation kind, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}

func TestQuizCorrectOption(t *testing.T) {
	q := model.Quiz{Options: []string{"a", "b", "c"}, CorrectIndex: 2}
	if q.CorrectOption() != "c" {
		t.Fatalf("expected c, got %q", q.CorrectOption())
	}
	q.CorrectIndex = 5
	if q.CorrectOption() != "" {
		t.Fatalf("expected empty option for out of range index")
	}
}

func scene(raw map[string]any, i int) map[string]any {
	return raw["scenes"].([]any)[i].(map[string]any)
}
