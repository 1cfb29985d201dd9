package prompt_test

import (
	"strings"
	"testing"

	"lovereel/internal/prompt"
	"lovereel/internal/testutil"
)

func TestBuildIsDeterministic(t *testing.T) {
	a := prompt.Build(testutil.SampleRequest())
	b := prompt.Build(testutil.SampleRequest())
	if a != b {
		t.Fatalf("expected identical prompts for identical input")
	}
}

func TestBuildIncludesDescriptionsAndAnswers(t *testing.T) {
	req := testutil.SampleRequest()
	out := prompt.Build(req)

	memories := strings.Join([]string{
		req.Memories[0].Description,
		req.Memories[1].Description,
		req.Memories[2].Description,
	}, "\n")
	if !strings.Contains(out, memories) {
		t.Fatalf("expected memory descriptions one per line, got:\n%s", out)
	}
	facts := strings.Join([]string{
		req.PersonalQA[0].Answer,
		req.PersonalQA[1].Answer,
		req.PersonalQA[2].Answer,
	}, "\n")
	if !strings.Contains(out, facts) {
		t.Fatalf("expected answers one per line, got:\n%s", out)
	}
	if strings.Contains(out, req.Memories[0].Title) {
		t.Fatalf("memory titles are not part of the prompt")
	}
	if !strings.Contains(out, "exactly 3 narrative beats") {
		t.Fatalf("expected beat count instruction")
	}
	if !strings.Contains(out, "never reveal which option is correct") {
		t.Fatalf("expected answer hiding instruction")
	}
}

func TestBuildChangesWithInput(t *testing.T) {
	req := testutil.SampleRequest()
	before := prompt.Build(req)
	req.PersonalQA[0].Answer = "Pistachio gelato"
	if prompt.Build(req) == before {
		t.Fatalf("expected prompt to reflect changed answer")
	}
}
