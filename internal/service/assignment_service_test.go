package service

import (
	"errors"
	"math/rand"
	"testing"

	"trailhunt_backend/internal/model"
	"trailhunt_backend/internal/util"
)

func makeQuestions(startID uint, n int, bonus bool) []model.Question {
	questions := make([]model.Question, 0, n)
	for i := 0; i < n; i++ {
		q := model.Question{IsBonus: bonus, Points: 10}
		q.ID = startID + uint(i)
		questions = append(questions, q)
	}
	return questions
}

func TestBuildSequenceIsPermutation(t *testing.T) {
	normal := makeQuestions(1, 8, false)
	bonus := makeQuestions(100, 3, true)
	rng := rand.New(rand.NewSource(42))

	rows := BuildSequence(7, normal, bonus, rng)

	if len(rows) != 11 {
		t.Fatalf("expected 11 rows, got %d", len(rows))
	}

	seenOrder := make(map[int]bool)
	seenQuestion := make(map[uint]bool)
	for _, row := range rows {
		if row.UserID != 7 {
			t.Fatalf("row has wrong user id: %+v", row)
		}
		if row.QuestionOrder < 1 || row.QuestionOrder > 11 {
			t.Fatalf("order %d out of range 1..11", row.QuestionOrder)
		}
		if seenOrder[row.QuestionOrder] {
			t.Fatalf("duplicate order %d", row.QuestionOrder)
		}
		seenOrder[row.QuestionOrder] = true
		if seenQuestion[row.QuestionID] {
			t.Fatalf("duplicate question %d", row.QuestionID)
		}
		seenQuestion[row.QuestionID] = true
	}
}

func TestBuildSequenceNormalBeforeBonus(t *testing.T) {
	normal := makeQuestions(1, 5, false)
	bonus := makeQuestions(50, 2, true)
	rng := rand.New(rand.NewSource(1))

	rows := BuildSequence(1, normal, bonus, rng)

	// 序号 1..5 必须是普通题，6..7 必须是附加题
	for _, row := range rows {
		if row.QuestionOrder <= 5 && row.QuestionID >= 50 {
			t.Fatalf("bonus question %d placed at order %d", row.QuestionID, row.QuestionOrder)
		}
		if row.QuestionOrder > 5 && row.QuestionID < 50 {
			t.Fatalf("normal question %d placed at order %d", row.QuestionID, row.QuestionOrder)
		}
	}
}

func TestBuildSequenceBonusKeepsCatalogOrder(t *testing.T) {
	bonus := makeQuestions(10, 4, true)
	rng := rand.New(rand.NewSource(99))

	rows := BuildSequence(1, nil, bonus, rng)

	for i, row := range rows {
		if row.QuestionOrder != i+1 {
			t.Fatalf("expected order %d, got %d", i+1, row.QuestionOrder)
		}
		if row.QuestionID != bonus[i].ID {
			t.Fatalf("bonus order broken: expected question %d at position %d, got %d", bonus[i].ID, i, row.QuestionID)
		}
	}
}

func TestBuildSequenceDoesNotMutateInput(t *testing.T) {
	normal := makeQuestions(1, 6, false)
	original := make([]uint, len(normal))
	for i, q := range normal {
		original[i] = q.ID
	}
	rng := rand.New(rand.NewSource(3))

	BuildSequence(1, normal, nil, rng)

	for i, q := range normal {
		if q.ID != original[i] {
			t.Fatalf("input slice mutated at index %d", i)
		}
	}
}

func TestBuildSequenceEmptyBank(t *testing.T) {
	rng := rand.New(rand.NewSource(0))
	rows := BuildSequence(1, nil, nil, rng)
	if len(rows) != 0 {
		t.Fatalf("expected no rows for empty bank, got %d", len(rows))
	}
}

type fakeSequenceStore struct {
	rows     map[uint][]model.Assignment
	failWith error
}

func newFakeSequenceStore() *fakeSequenceStore {
	return &fakeSequenceStore{rows: make(map[uint][]model.Assignment)}
}

func (f *fakeSequenceStore) CreateSequence(userID uint, rows []model.Assignment) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.rows[userID]; ok {
		return util.ErrAlreadyAssigned
	}
	f.rows[userID] = rows
	return nil
}

func (f *fakeSequenceStore) ListByUser(userID uint) ([]model.Assignment, error) {
	return f.rows[userID], nil
}

type fakeCatalog struct {
	normal, bonus []model.Question
}

func (f *fakeCatalog) ListByBonus(isBonus bool) ([]model.Question, error) {
	if isBonus {
		return f.bonus, nil
	}
	return f.normal, nil
}

func TestAssignSecondCallLeavesSequenceUnchanged(t *testing.T) {
	store := newFakeSequenceStore()
	s := NewAssignmentService(store, &fakeCatalog{
		normal: makeQuestions(1, 5, false),
		bonus:  makeQuestions(50, 1, true),
	})

	if err := s.Assign(7); err != nil {
		t.Fatalf("first assign failed: %v", err)
	}
	first, _ := s.ListByUser(7)
	if len(first) != 6 {
		t.Fatalf("expected 6 assignments, got %d", len(first))
	}

	if err := s.Assign(7); !errors.Is(err, util.ErrAlreadyAssigned) {
		t.Fatalf("second assign must fail AlreadyAssigned, got %v", err)
	}

	second, _ := s.ListByUser(7)
	if len(second) != len(first) {
		t.Fatalf("rejected re-assign changed the sequence length: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if second[i].QuestionID != first[i].QuestionID || second[i].QuestionOrder != first[i].QuestionOrder {
			t.Fatalf("rejected re-assign mutated row %d: %+v -> %+v", i, first[i], second[i])
		}
	}
}

func TestAssignDuplicateKeyMapsToAlreadyAssigned(t *testing.T) {
	// 并发竞态：两次 assign 同时通过预检，唯一索引拦下后来者
	store := newFakeSequenceStore()
	store.failWith = errors.New("Error 1062: Duplicate entry '7-1' for key 'idx_assignment_user_question'")
	s := NewAssignmentService(store, &fakeCatalog{normal: makeQuestions(1, 3, false)})

	if err := s.Assign(7); !errors.Is(err, util.ErrAlreadyAssigned) {
		t.Fatalf("unique-key violation must map to ErrAlreadyAssigned, got %v", err)
	}
}

func TestIsDuplicateEntry(t *testing.T) {
	if isDuplicateEntry(nil) {
		t.Fatal("nil error flagged as duplicate")
	}
	err := &mysqlError{"Error 1062: Duplicate entry '7-3' for key 'idx_assignment_user_question'"}
	if !isDuplicateEntry(err) {
		t.Fatal("MySQL 1062 not recognized")
	}
}

type mysqlError struct{ msg string }

func (e *mysqlError) Error() string { return e.msg }
