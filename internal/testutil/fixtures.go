// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"encoding/json"
	"fmt"

	"lovereel/internal/model"
)

// SampleRequest returns the three-memory request used across tests.
func SampleRequest() model.CreationRequest {
	return model.CreationRequest{
		Memories: []model.Memory{
			{Title: "First Date", Description: "We got lost downtown"},
			{Title: "Road Trip", Description: "Drove to the coast singing off-key"},
			{Title: "Proposal", Description: "Rainy rooftop, dropped the ring"},
		},
		PersonalQA: []model.QAPair{
			{Question: "Favourite snack?", Answer: "Salted caramel popcorn"},
			{Question: "Song we always sing?", Answer: "Dancing Queen"},
			{Question: "Where did we meet?", Answer: "At a bookshop in Lisbon"},
		},
	}
}

// SampleContentJSON returns a generator response that passes validation.
// bloopers controls how many blooper lines are included.
func SampleContentJSON(bloopers int) string {
	doc := map[string]any{
		"title":    "Lost and Found in Love",
		"scenes":   sampleScenes(),
		"bloopers": sampleBloopers(bloopers),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// SampleContent returns the typed form of SampleContentJSON.
func SampleContent(bloopers int) *model.Content {
	scenes := make([]model.Scene, 0, model.SceneCount)
	for i := 0; i < model.SceneCount; i++ {
		scenes = append(scenes, model.Scene{
			SceneNumber: i + 1,
			Content:     fmt.Sprintf("Scene %d narrative", i+1),
			Quiz: model.Quiz{
				Question:     fmt.Sprintf("Question %d?", i+1),
				Options:      []string{fmt.Sprintf("A%d", i+1), fmt.Sprintf("B%d", i+1), fmt.Sprintf("C%d", i+1)},
				CorrectIndex: i % model.OptionCount,
			},
			Commentary: fmt.Sprintf("Director note %d", i+1),
		})
	}
	return &model.Content{
		Title:    "Lost and Found in Love",
		Scenes:   scenes,
		Bloopers: sampleBloopers(bloopers),
	}
}

// RawContent decodes SampleContentJSON into the untyped form the validator takes.
func RawContent(bloopers int) map[string]any {
	var raw map[string]any
	if err := json.Unmarshal([]byte(SampleContentJSON(bloopers)), &raw); err != nil {
		panic(err)
	}
	return raw
}

func sampleScenes() []map[string]any {
	c := SampleContent(0)
	out := make([]map[string]any, 0, len(c.Scenes))
	for _, s := range c.Scenes {
		out = append(out, map[string]any{
			"scene_number": s.SceneNumber,
			"content":      s.Content,
			"quiz": map[string]any{
				"question":      s.Quiz.Question,
				"options":       s.Quiz.Options,
				"correct_index": s.Quiz.CorrectIndex,
			},
			"commentary": s.Commentary,
		})
	}
	return out
}

func sampleBloopers(n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("Blooper %d", i+1))
	}
	return out
}
