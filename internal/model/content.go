package model

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"lovereel/internal/apierr"
)

const validateOp = "validate content"

var topLevelKeys = map[string]bool{"title": true, "scenes": true, "bloopers": true}

// ValidateContent 将生成结果的无类型结构校验并转换为 Content。
// Partial content is rejected, never padded or truncated.
func ValidateContent(raw map[string]any) (*Content, error) {
	if raw == nil {
		return nil, violation("empty object")
	}
	missing := make([]string, 0, len(topLevelKeys))
	for key := range topLevelKeys {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, violation("missing required keys %v", missing)
	}
	for key := range raw {
		if !topLevelKeys[key] {
			return nil, violation("unexpected key %q", key)
		}
	}

	title, ok := raw["title"].(string)
	if !ok || title == "" {
		return nil, violation("title must be a non-empty string")
	}

	rawScenes, ok := raw["scenes"].([]any)
	if !ok {
		return nil, violation("scenes must be an array")
	}
	if len(rawScenes) != SceneCount {
		return nil, violation("scenes: want %d, got %d", SceneCount, len(rawScenes))
	}

	scenes := make([]Scene, 0, SceneCount)
	seen := make(map[int]bool, SceneCount)
	for i, rs := range rawScenes {
		scene, err := parseScene(i, rs)
		if err != nil {
			return nil, err
		}
		if seen[scene.SceneNumber] {
			return nil, violation("scenes[%d]: duplicate scene_number %d", i, scene.SceneNumber)
		}
		seen[scene.SceneNumber] = true
		if scene.SceneNumber != i+1 {
			return nil, violation("scenes[%d]: scene_number %d out of order", i, scene.SceneNumber)
		}
		scenes = append(scenes, scene)
	}

	rawBloopers, ok := raw["bloopers"].([]any)
	if !ok {
		return nil, violation("bloopers must be an array")
	}
	if len(rawBloopers) < 1 {
		return nil, violation("bloopers: want at least 1")
	}
	bloopers := make([]string, 0, len(rawBloopers))
	for i, rb := range rawBloopers {
		s, ok := rb.(string)
		if !ok {
			return nil, violation("bloopers[%d] must be a string", i)
		}
		bloopers = append(bloopers, s)
	}

	return &Content{Title: title, Scenes: scenes, Bloopers: bloopers}, nil
}

func parseScene(i int, v any) (Scene, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Scene{}, violation("scenes[%d] must be an object", i)
	}
	number, ok := asInt(obj["scene_number"])
	if !ok || number < 1 || number > SceneCount {
		return Scene{}, violation("scenes[%d].scene_number must be an integer in [1,%d]", i, SceneCount)
	}
	text, ok := obj["content"].(string)
	if !ok {
		return Scene{}, violation("scenes[%d].content must be a string", i)
	}
	commentary, ok := obj["commentary"].(string)
	if !ok {
		return Scene{}, violation("scenes[%d].commentary must be a string", i)
	}
	quiz, err := parseQuiz(i, obj["quiz"])
	if err != nil {
		return Scene{}, err
	}
	return Scene{SceneNumber: number, Content: text, Quiz: quiz, Commentary: commentary}, nil
}

func parseQuiz(i int, v any) (Quiz, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Quiz{}, violation("scenes[%d].quiz must be an object", i)
	}
	question, ok := obj["question"].(string)
	if !ok {
		return Quiz{}, violation("scenes[%d].quiz.question must be a string", i)
	}
	rawOptions, ok := obj["options"].([]any)
	if !ok {
		return Quiz{}, violation("scenes[%d].quiz.options must be an array", i)
	}
	if len(rawOptions) != OptionCount {
		return Quiz{}, violation("scenes[%d].quiz.options: want %d, got %d", i, OptionCount, len(rawOptions))
	}
	options := make([]string, 0, OptionCount)
	for j, ro := range rawOptions {
		s, ok := ro.(string)
		if !ok {
			return Quiz{}, violation("scenes[%d].quiz.options[%d] must be a string", i, j)
		}
		options = append(options, s)
	}
	idx, ok := asInt(obj["correct_index"])
	if !ok || idx < 0 || idx >= len(options) {
		return Quiz{}, violation("scenes[%d].quiz.correct_index must index into options", i)
	}
	return Quiz{Question: question, Options: options, CorrectIndex: idx}, nil
}

// asInt accepts JSON numbers that carry an integral value.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

func violation(format string, args ...any) error {
	return apierr.New(apierr.KindSchemaViolation, validateOp, fmt.Errorf(format, args...))
}
