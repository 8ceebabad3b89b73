package model

// Test is one free proficiency test: basic info plus an ordered
// question sequence. ReadingPassage is the shared context for
// reading-comprehension questions.
// swagger:model Test
type Test struct {
	UUIDBase
	Title          string     `gorm:"size:255;not null" json:"title"`
	ReadingPassage string     `gorm:"type:text" json:"readingPassage,omitempty"`
	IsPublished    bool       `gorm:"default:false" json:"isPublished"`
	Questions      []Question `gorm:"foreignKey:TestID;references:ID" json:"questions,omitempty"`
}

func (Test) TableName() string {
	return "tests"
}
