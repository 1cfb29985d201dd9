package prompt

import (
	"strings"

	"lovereel/internal/model"
)

// SystemInstructions 固定的系统角色提示词
const SystemInstructions = `You are a charming and witty romantic comedy screenwriter. You blend real-life moments with fictional elements while keeping warmth and authenticity.

When generating content:
1. Treat the provided memories as anchor points for the story.
2. Use the personal facts to create natural quiz moments within scenes.
3. Add fictional elements that complement but never overshadow real events.
4. Write plausible alternative quiz options that are funny without being ridiculous.
5. Write director's commentary in the voice of a cheerful romantic optimist.
6. Write bloopers that are encouraging rather than embarrassing, one per scene in scene order.

Keep scenes concise but vivid and balance humor with heart.
Format all output as valid JSON according to the specified schema.`

const storyTemplateHead = "Generate a romantic comedy story containing exactly 3 narrative beats using these real memories:\n"

const storyTemplateFacts = "\n\nAnd these personal facts about me:\n"

const storyTemplateTail = `

Spread the beats across exactly 5 numbered scenes, each with one multiple-choice quiz of 3 options.
Show the quiz question and its options, but never reveal which option is correct anywhere in the scene narrative, the commentary or the bloopers.
Return valid JSON according to the specified schema and nothing else.`

// Build 根据创建请求构建生成提示词。相同输入总是得到相同输出。
func Build(req model.CreationRequest) string {
	var b strings.Builder
	b.WriteString(storyTemplateHead)
	for i, m := range req.Memories {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.Description)
	}
	b.WriteString(storyTemplateFacts)
	for i, qa := range req.PersonalQA {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(qa.Answer)
	}
	b.WriteString(storyTemplateTail)
	return b.String()
}
