package repository

import (
	"encoding/json"
	"time"

	"trailhunt_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB       *gorm.DB
	Activity *ActivityLogRepository
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db, Activity: NewActivityLogRepository(db)}
}

// SubmitWithEvent 答案与提交事件同事务落库
func (r *AnswerRepository) SubmitWithEvent(answer *model.Answer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(answer).Error; err != nil {
			return err
		}
		payload, _ := json.Marshal(map[string]interface{}{
			"answerId":   answer.ID,
			"questionId": answer.QuestionID,
		})
		return r.Activity.Append(tx, &model.ActivityLog{
			UserID:  answer.UserID,
			Kind:    model.ActivitySubmission,
			Payload: payload,
		})
	})
}

// ReviewWithEvent 审核字段更新与审核事件同事务落库
func (r *AnswerRepository) ReviewWithEvent(answer *model.Answer, state model.ReviewState, reviewerID uint, reviewedAt time.Time, feedback string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Answer{}).
			Where("id = ?", answer.ID).
			Updates(map[string]interface{}{
				"review_state":   state,
				"reviewed_by":    reviewerID,
				"reviewed_at":    reviewedAt,
				"admin_feedback": feedback,
			}).Error; err != nil {
			return err
		}
		payload, _ := json.Marshal(map[string]interface{}{
			"answerId":   answer.ID,
			"questionId": answer.QuestionID,
			"accepted":   state == model.Accepted,
		})
		return r.Activity.Append(tx, &model.ActivityLog{
			UserID:  answer.UserID,
			Kind:    model.ActivityReview,
			Payload: payload,
		})
	})
}

func (r *AnswerRepository) FindByUserAndQuestion(userID, questionID uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.DB.Where("user_id = ? AND question_id = ?", userID, questionID).First(&answer).Error
	return &answer, err
}

// FindByIDForUser 限定参赛者查找，防止跨参赛者审核错行
func (r *AnswerRepository) FindByIDForUser(answerID, userID uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.DB.Preload("Question").
		Where("id = ? AND user_id = ?", answerID, userID).
		First(&answer).Error
	return &answer, err
}

func (r *AnswerRepository) ListByUser(userID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Preload("Question").
		Where("user_id = ?", userID).
		Order("submitted_at ASC").
		Find(&answers).Error
	return answers, err
}

func (r *AnswerRepository) CountByQuestion(questionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Answer{}).Where("question_id = ?", questionID).Count(&count).Error
	return count, err
}

// CountSubmitted 已提交（无论是否通过审核）的普通题/附加题数量
func (r *AnswerRepository) CountSubmitted(userID uint, isBonus bool) (int, error) {
	var count int64
	err := r.DB.Model(&model.Answer{}).
		Joins("JOIN question_bank q ON q.id = user_answers.question_id").
		Where("user_answers.user_id = ? AND q.is_bonus = ?", userID, isBonus).
		Count(&count).Error
	return int(count), err
}

// AcceptedStat 每个参赛者已通过审核的答案聚合
type AcceptedStat struct {
	UserID        uint       `json:"userId"`
	NormalSolved  int        `json:"normalSolved"`
	BonusSolved   int        `json:"bonusSolved"`
	TotalPoints   int        `json:"totalPoints"`
	FirstAccepted *time.Time `json:"firstAccepted"`
	LastAccepted  *time.Time `json:"lastAccepted"`
}

// AcceptedStats 排行榜的唯一数据源：一条聚合查询算出每人
// 通过数、总分和首末提交时间
func (r *AnswerRepository) AcceptedStats() ([]AcceptedStat, error) {
	var stats []AcceptedStat
	err := r.DB.Model(&model.Answer{}).
		Select(`user_answers.user_id AS user_id,
			SUM(CASE WHEN q.is_bonus = 0 THEN 1 ELSE 0 END) AS normal_solved,
			SUM(CASE WHEN q.is_bonus = 1 THEN 1 ELSE 0 END) AS bonus_solved,
			SUM(q.points) AS total_points,
			MIN(user_answers.submitted_at) AS first_accepted,
			MAX(user_answers.submitted_at) AS last_accepted`).
		Joins("JOIN question_bank q ON q.id = user_answers.question_id").
		Where("user_answers.review_state = ?", model.Accepted).
		Group("user_answers.user_id").
		Scan(&stats).Error
	return stats, err
}
