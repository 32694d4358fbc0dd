package model

import "time"

type ReviewState string

const (
	Unreviewed ReviewState = "unreviewed"
	Accepted   ReviewState = "accepted"
	Rejected   ReviewState = "rejected"
)

// Answer 参赛者对某道题的唯一一次提交。
// 提交内容（文本/图片）创建后不可变，仅审核字段可被管理员更新。
// (user_id, question_id) 唯一索引保证单次提交不变式
// swagger:model Answer
type Answer struct {
	BaseModel
	UserID         uint        `gorm:"not null;uniqueIndex:idx_answer_user_question;index" json:"userId"`
	QuestionID     uint        `gorm:"not null;uniqueIndex:idx_answer_user_question" json:"questionId"`
	TextAnswer     string      `gorm:"type:text" json:"textAnswer"`
	ImageAnswerURL string      `gorm:"size:255" json:"imageAnswerUrl"`
	SubmittedAt    time.Time   `gorm:"not null" json:"submittedAt"`
	ReviewState    ReviewState `gorm:"type:enum('unreviewed','accepted','rejected');default:'unreviewed'" json:"reviewState"`
	ReviewedBy     *uint       `json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time  `json:"reviewedAt,omitempty"`
	AdminFeedback  string      `gorm:"type:text" json:"adminFeedback"`
	Question       Question    `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

func (Answer) TableName() string {
	return "user_answers"
}
