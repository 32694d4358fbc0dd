package model

// Assignment 参赛者的个人题目序列中的一项。
// (user_id, question_id) 唯一索引兜底并发下的重复分配
// swagger:model Assignment
type Assignment struct {
	BaseModel
	UserID        uint     `gorm:"not null;uniqueIndex:idx_assignment_user_question;index" json:"userId"`
	QuestionID    uint     `gorm:"not null;uniqueIndex:idx_assignment_user_question" json:"questionId"`
	QuestionOrder int      `gorm:"not null" json:"questionOrder"`
	Question      Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

func (Assignment) TableName() string {
	return "question_assignments"
}
