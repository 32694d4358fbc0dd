package service

import (
	"context"
	"errors"
	"time"

	"trailhunt_backend/internal/model"
	"trailhunt_backend/internal/util"
	"trailhunt_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// AnswerLedger 答案的持久化。带事件的写入必须整体成败
type AnswerLedger interface {
	FindByUserAndQuestion(userID, questionID uint) (*model.Answer, error)
	FindByIDForUser(answerID, userID uint) (*model.Answer, error)
	ListByUser(userID uint) ([]model.Answer, error)
	SubmitWithEvent(answer *model.Answer) error
	ReviewWithEvent(answer *model.Answer, state model.ReviewState, reviewerID uint, reviewedAt time.Time, feedback string) error
}

// QuestionFinder 按 ID 查题
type QuestionFinder interface {
	FindByID(id uint) (*model.Question, error)
}

// AssignmentChecker 判断题目是否在参赛者的分配序列内
type AssignmentChecker interface {
	Exists(userID, questionID uint) (bool, error)
}

type AnswerService struct {
	Answers     AnswerLedger
	Assignments AssignmentChecker
	Questions   QuestionFinder
	Redis       *redis.Client
}

func NewAnswerService(answers AnswerLedger, assignments AssignmentChecker, questions QuestionFinder, rdb *redis.Client) *AnswerService {
	return &AnswerService{
		Answers:     answers,
		Assignments: assignments,
		Questions:   questions,
		Redis:       rdb,
	}
}

// Submit 前置校验按固定顺序逐条失败：题目存在 → 在分配序列内 →
// 尚未提交过 → 需要图片时有图片。通过后答案与事件记录同事务落库。
// 唯一索引兜底并发重复提交，冲突映射为 ErrAlreadyAnswered
func (s *AnswerService) Submit(userID, questionID uint, textAnswer, imageURL string) (*model.Answer, error) {
	question, err := s.Questions.FindByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}

	assigned, err := s.Assignments.Exists(userID, questionID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, util.ErrNotAssigned
	}

	if _, err := s.Answers.FindByUserAndQuestion(userID, questionID); err == nil {
		return nil, util.ErrAlreadyAnswered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if question.RequiresImage && imageURL == "" {
		return nil, util.ErrImageRequired
	}

	answer := &model.Answer{
		UserID:         userID,
		QuestionID:     questionID,
		TextAnswer:     textAnswer,
		ImageAnswerURL: imageURL,
		SubmittedAt:    time.Now(),
		ReviewState:    model.Unreviewed,
	}

	if err := s.Answers.SubmitWithEvent(answer); err != nil {
		if isDuplicateEntry(err) {
			return nil, util.ErrAlreadyAnswered
		}
		return nil, err
	}

	monitoring.SubmissionCounter.Inc()
	return answer, nil
}

// Review 记录审核结论。允许重复审核（管理员改判），每次都会追加
// 一条事件记录并使排行榜缓存失效
func (s *AnswerService) Review(participantID, answerID uint, accepted bool, reviewerID uint, feedback string) (*model.Answer, error) {
	answer, err := s.Answers.FindByIDForUser(answerID, participantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAnswerNotFound
	}
	if err != nil {
		return nil, err
	}

	state := model.Rejected
	if accepted {
		state = model.Accepted
	}
	now := time.Now()

	if err := s.Answers.ReviewWithEvent(answer, state, reviewerID, now, feedback); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		s.Redis.Del(context.Background(), leaderboardCacheKey)
	}

	answer.ReviewState = state
	answer.ReviewedBy = &reviewerID
	answer.ReviewedAt = &now
	answer.AdminFeedback = feedback

	monitoring.ReviewCounter.WithLabelValues(string(state)).Inc()
	return answer, nil
}

func (s *AnswerService) ListForUser(userID uint) ([]model.Answer, error) {
	return s.Answers.ListByUser(userID)
}
