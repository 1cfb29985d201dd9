package model

import "time"

// Memory 用户提供的回忆
type Memory struct {
	Title       string `json:"title" validate:"notblank"`         // 回忆标题
	Description string `json:"description" validate:"trimmedgt=10"` // 回忆描述
}

// QAPair 个人问答
type QAPair struct {
	Question string `json:"question" validate:"notblank"`
	Answer   string `json:"answer" validate:"notblank"`
}

// CreationRequest 故事创建请求，回忆和问答各恰好3条
type CreationRequest struct {
	Memories   []Memory `json:"memories" validate:"len=3,dive"`
	PersonalQA []QAPair `json:"personal_qa" validate:"len=3,dive"`
}

// Quiz 场景测验
type Quiz struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// CorrectOption returns the option text at CorrectIndex.
func (q Quiz) CorrectOption() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// Scene 故事场景
type Scene struct {
	SceneNumber int    `json:"scene_number"` // 场景编号 1..5
	Content     string `json:"content"`      // 场景叙述
	Quiz        Quiz   `json:"quiz"`
	Commentary  string `json:"commentary"` // 导演点评
}

// Content 生成的故事内容
type Content struct {
	Title    string   `json:"title"`
	Scenes   []Scene  `json:"scenes"`
	Bloopers []string `json:"bloopers"` // 花絮，按位置对应场景
}

// StoredStory 持久化的故事记录，写入后不再修改
type StoredStory struct {
	ID        string          `json:"id"`
	Request   CreationRequest `json:"meta"`
	Content   Content         `json:"content"`
	AccessKey string          `json:"access_key"`
	CreatedAt time.Time       `json:"created_at"`
}

const (
	MemoryCount = 3
	QACount     = 3
	SceneCount  = 5
	OptionCount = 3
)
