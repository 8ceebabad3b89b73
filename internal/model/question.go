package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// QuestionType is the tagged variant of a test question. Per-type rules
// (underline ranges, reading passage context) hang off this tag.
type QuestionType string

const (
	QuestionPronunciation        QuestionType = "pronunciation"
	QuestionStress               QuestionType = "stress"
	QuestionFillInBlank          QuestionType = "fill_in_blank"
	QuestionErrorIdentification  QuestionType = "error_identification"
	QuestionReadingComprehension QuestionType = "reading_comprehension"
)

// UnderlineRange is an inclusive character span within an option's text,
// highlighted for pronunciation and stress questions. Indexes are rune
// positions, not bytes.
type UnderlineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Option is one selectable answer choice.
type Option struct {
	Text      string          `json:"text"`
	Underline *UnderlineRange `json:"underline,omitempty"`
}

// OptionList is stored as a JSON column; insertion order determines
// on-screen order and is preserved through edits.
type OptionList []Option

func (o OptionList) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (o *OptionList) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into OptionList", value)
	}
	return json.Unmarshal(data, o)
}

// Question is one question of a free test. QuestionID is the author-visible
// identifier; the (test_id, question_id) unique index makes the database the
// final authority on uniqueness, the pre-insert check is advisory only.
// swagger:model Question
type Question struct {
	UUIDBase
	TestID        string       `gorm:"type:varchar(36);index:idx_test_question,unique" json:"testId"`
	QuestionID    string       `gorm:"size:64;index:idx_test_question,unique" json:"questionId"`
	Type          QuestionType `gorm:"size:32;not null" json:"type"`
	Text          string       `gorm:"type:text;not null" json:"questionText"`
	Options       OptionList   `gorm:"type:json" json:"options"`
	CorrectAnswer string       `gorm:"type:text" json:"correctAnswer"`
	AudioURL      string       `gorm:"size:255" json:"audioUrl,omitempty"`
	Position      int          `gorm:"default:0" json:"position"`
}

func (Question) TableName() string {
	return "questions"
}

// HasUnderlines reports whether this question type carries underline
// ranges on its options.
func (t QuestionType) HasUnderlines() bool {
	return t == QuestionPronunciation || t == QuestionStress
}
