package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"trailhunt_backend/internal/model"
	"trailhunt_backend/internal/repository"
	"trailhunt_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionService struct {
	QuestionRepo   *repository.QuestionRepository
	AssignmentRepo *repository.AssignmentRepository
	AnswerRepo     *repository.AnswerRepository
}

func NewQuestionService(questionRepo *repository.QuestionRepository, assignmentRepo *repository.AssignmentRepository, answerRepo *repository.AnswerRepository) *QuestionService {
	return &QuestionService{
		QuestionRepo:   questionRepo,
		AssignmentRepo: assignmentRepo,
		AnswerRepo:     answerRepo,
	}
}

func (s *QuestionService) Create(question *model.Question) error {
	return s.QuestionRepo.Create(question)
}

func (s *QuestionService) List() ([]model.Question, error) {
	return s.QuestionRepo.FindAll()
}

func (s *QuestionService) Get(id uint) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return question, err
}

func (s *QuestionService) Update(question *model.Question) error {
	return s.QuestionRepo.Update(question)
}

// Delete 被分配或已有答案引用的题目不允许删除
func (s *QuestionService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	assigned, err := s.AssignmentRepo.CountByQuestion(id)
	if err != nil {
		return err
	}
	answered, err := s.AnswerRepo.CountByQuestion(id)
	if err != nil {
		return err
	}
	if assigned > 0 || answered > 0 {
		return util.ErrQuestionReferenced
	}
	return s.QuestionRepo.Delete(id)
}

// ImportRowError CSV 导入中单行的失败原因
type ImportRowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportReport 导入结果：成功条数加逐行错误
type ImportReport struct {
	Imported int              `json:"imported"`
	Errors   []ImportRowError `json:"errors"`
}

// ImportCSV 批量导入题库。列：question,points,requires_image,is_bonus。
// 合法行在一个事务内整体入库，非法行收进报告里跳过
func (s *QuestionService) ImportCSV(r io.Reader) (*ImportReport, error) {
	questions, rowErrors, err := ParseQuestionCSV(r)
	if err != nil {
		return nil, err
	}

	if err := s.QuestionRepo.CreateBatch(questions); err != nil {
		return nil, err
	}

	return &ImportReport{Imported: len(questions), Errors: rowErrors}, nil
}

// ParseQuestionCSV 解析导入文件。首行若 points 列不是数字视为表头
func ParseQuestionCSV(r io.Reader) ([]model.Question, []ImportRowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		questions []model.Question
		rowErrors []ImportRowError
		line      int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		line++

		if len(record) < 2 {
			rowErrors = append(rowErrors, ImportRowError{Line: line, Reason: "expected at least 2 columns (question, points)"})
			continue
		}

		text := strings.TrimSpace(record[0])
		points, perr := strconv.Atoi(strings.TrimSpace(record[1]))
		if line == 1 && perr != nil {
			// 表头行
			continue
		}
		if text == "" {
			rowErrors = append(rowErrors, ImportRowError{Line: line, Reason: "empty question text"})
			continue
		}
		if perr != nil || points <= 0 {
			rowErrors = append(rowErrors, ImportRowError{Line: line, Reason: fmt.Sprintf("invalid points %q", record[1])})
			continue
		}

		question := model.Question{Text: text, Points: points}
		if len(record) > 2 {
			question.RequiresImage = parseCSVBool(record[2])
		}
		if len(record) > 3 {
			question.IsBonus = parseCSVBool(record[3])
		}
		questions = append(questions, question)
	}

	return questions, rowErrors, nil
}

func parseCSVBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
