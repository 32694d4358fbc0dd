package model

// Question 题库中的一道题目
// swagger:model Question
type Question struct {
	BaseModel
	Text          string `gorm:"type:text;not null" json:"text"`
	Points        int    `gorm:"not null" json:"points"`
	RequiresImage bool   `gorm:"default:false" json:"requiresImage"`
	IsBonus       bool   `gorm:"default:false" json:"isBonus"`
	ImageURL      string `gorm:"size:255" json:"imageUrl"`
}

func (Question) TableName() string {
	return "question_bank"
}
