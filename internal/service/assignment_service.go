package service

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"trailhunt_backend/internal/model"
	"trailhunt_backend/internal/util"
)

// AssignmentSequenceStore 分配序列的持久化。CreateSequence 必须整体
// 成败，且对已有分配的参赛者返回 ErrAlreadyAssigned
type AssignmentSequenceStore interface {
	CreateSequence(userID uint, rows []model.Assignment) error
	ListByUser(userID uint) ([]model.Assignment, error)
}

// QuestionCatalog 按题库目录序读取题目
type QuestionCatalog interface {
	ListByBonus(isBonus bool) ([]model.Question, error)
}

type AssignmentService struct {
	Assignments AssignmentSequenceStore
	Questions   QuestionCatalog

	mu  sync.Mutex
	rng *rand.Rand
}

func NewAssignmentService(assignments AssignmentSequenceStore, questions QuestionCatalog) *AssignmentService {
	return &AssignmentService{
		Assignments: assignments,
		Questions:   questions,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Assign 一次性生成该参赛者的完整题目序列并整体入库。
// 重复调用返回 ErrAlreadyAssigned；并发下由 (user_id, question_id)
// 唯一索引兜底，唯一键冲突同样映射为 ErrAlreadyAssigned
func (s *AssignmentService) Assign(userID uint) error {
	normal, err := s.Questions.ListByBonus(false)
	if err != nil {
		return err
	}
	bonus, err := s.Questions.ListByBonus(true)
	if err != nil {
		return err
	}

	s.mu.Lock()
	rows := BuildSequence(userID, normal, bonus, s.rng)
	s.mu.Unlock()

	if err := s.Assignments.CreateSequence(userID, rows); err != nil {
		if isDuplicateEntry(err) {
			return util.ErrAlreadyAssigned
		}
		return err
	}
	return nil
}

func (s *AssignmentService) ListByUser(userID uint) ([]model.Assignment, error) {
	return s.Assignments.ListByUser(userID)
}

// BuildSequence 生成分配序列：普通题等概率原地乱序（rand.Shuffle 即
// Fisher–Yates，不允许用随机比较器排序代替），附加题保持题库目录序
// 追加在后。序号从 1 起连续递增
func BuildSequence(userID uint, normal, bonus []model.Question, rng *rand.Rand) []model.Assignment {
	shuffled := make([]model.Question, len(normal))
	copy(shuffled, normal)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	rows := make([]model.Assignment, 0, len(shuffled)+len(bonus))
	order := 1
	for _, q := range shuffled {
		rows = append(rows, model.Assignment{UserID: userID, QuestionID: q.ID, QuestionOrder: order})
		order++
	}
	for _, q := range bonus {
		rows = append(rows, model.Assignment{UserID: userID, QuestionID: q.ID, QuestionOrder: order})
		order++
	}
	return rows
}

// isDuplicateEntry MySQL 1062 唯一键冲突
func isDuplicateEntry(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
