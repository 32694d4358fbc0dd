package repository

import (
	"trailhunt_backend/internal/model"
	"trailhunt_backend/internal/util"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

// CreateSequence 在一个事务内检查重复分配并整体写入序列。
// 已存在任何分配时返回 ErrAlreadyAssigned，已有序列保持不动
func (r *AssignmentRepository) CreateSequence(userID uint, rows []model.Assignment) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Assignment{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return util.ErrAlreadyAssigned
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *AssignmentRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Assignment{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *AssignmentRepository) CountByQuestion(questionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Assignment{}).Where("question_id = ?", questionID).Count(&count).Error
	return count, err
}

func (r *AssignmentRepository) Exists(userID, questionID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Assignment{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&count).Error
	return count > 0, err
}

func (r *AssignmentRepository) ListByUser(userID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.DB.Preload("Question").
		Where("user_id = ?", userID).
		Order("question_order ASC").
		Find(&assignments).Error
	return assignments, err
}

// NextUnanswered 取指定类别（普通/附加）中序号最小且尚无提交记录的分配项。
// 未找到时返回 gorm.ErrRecordNotFound，调用方据此判定"已完成"
func (r *AssignmentRepository) NextUnanswered(userID uint, isBonus bool) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.DB.Preload("Question").
		Joins("JOIN question_bank q ON q.id = question_assignments.question_id").
		Where("question_assignments.user_id = ? AND q.is_bonus = ?", userID, isBonus).
		Where("NOT EXISTS (SELECT 1 FROM user_answers a WHERE a.user_id = question_assignments.user_id AND a.question_id = question_assignments.question_id AND a.deleted_at IS NULL)").
		Order("question_assignments.question_order ASC").
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}
