package service

import (
	"errors"

	"trailhunt_backend/internal/config"
	"trailhunt_backend/internal/model"
	"trailhunt_backend/internal/repository"

	"gorm.io/gorm"
)

type ProgressionService struct {
	AssignmentRepo *repository.AssignmentRepository
	AnswerRepo     *repository.AnswerRepository
	Cfg            *config.Config
}

func NewProgressionService(assignmentRepo *repository.AssignmentRepository, answerRepo *repository.AnswerRepository, cfg *config.Config) *ProgressionService {
	return &ProgressionService{
		AssignmentRepo: assignmentRepo,
		AnswerRepo:     answerRepo,
		Cfg:            cfg,
	}
}

// CurrentQuestionResult 当前题目及进度计数。
// Completed 为 true 表示该类别的题目已全部提交过，不是错误
type CurrentQuestionResult struct {
	Completed           bool            `json:"completed"`
	Question            *model.Question `json:"question,omitempty"`
	QuestionOrder       int             `json:"questionOrder,omitempty"`
	AnsweredNormalCount int             `json:"answeredNormalCount"`
	AnsweredBonusCount  int             `json:"answeredBonusCount"`
	CanTakeBonus        bool            `json:"canTakeBonus"`
}

// CurrentQuestion 在参赛者的分配序列中找指定类别里序号最小且
// 未提交过答案的题目。"已答"以提交为准，与审核结果无关
func (s *ProgressionService) CurrentQuestion(userID uint, wantsBonus bool) (*CurrentQuestionResult, error) {
	normalCount, err := s.AnswerRepo.CountSubmitted(userID, false)
	if err != nil {
		return nil, err
	}
	bonusCount, err := s.AnswerRepo.CountSubmitted(userID, true)
	if err != nil {
		return nil, err
	}

	result := &CurrentQuestionResult{
		AnsweredNormalCount: normalCount,
		AnsweredBonusCount:  bonusCount,
		CanTakeBonus:        CanTakeBonus(normalCount, bonusCount, s.Cfg.HuntRules().MilestoneSize),
	}

	assignment, err := s.AssignmentRepo.NextUnanswered(userID, wantsBonus)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		result.Completed = true
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	result.Question = &assignment.Question
	result.QuestionOrder = assignment.QuestionOrder
	return result, nil
}

// CanTakeBonus 每完成 milestoneSize 道普通题越过一个里程碑，
// 在对应附加题被领取之前恰好开放一个名额。错过边界不补发：
// answeredBonus 追平里程碑数后窗口关闭，直到下一个边界
func CanTakeBonus(answeredNormal, answeredBonus, milestoneSize int) bool {
	if milestoneSize <= 0 {
		return false
	}
	milestone := (answeredNormal + 1) / milestoneSize
	return (answeredNormal+1)%milestoneSize == 0 && answeredBonus < milestone
}
