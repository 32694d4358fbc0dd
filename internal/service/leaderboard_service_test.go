package service

import (
	"testing"
	"time"

	"trailhunt_backend/internal/model"
	"trailhunt_backend/internal/repository"
)

func makeUser(id uint, username string) model.User {
	u := model.User{Username: username, Role: model.Participant}
	u.ID = id
	return u
}

func timePtr(t time.Time) *time.Time { return &t }

func TestRankEntriesPointsThenTime(t *testing.T) {
	entries := []LeaderboardEntry{
		{UserID: 1, Username: "p1", NormalSolved: 10, TotalPoints: 100, TotalTimeMinutes: 20},
		{UserID: 2, Username: "p2", NormalSolved: 10, TotalPoints: 100, TotalTimeMinutes: 15},
		{UserID: 3, Username: "p3", NormalSolved: 11, TotalPoints: 110, TotalTimeMinutes: 30},
	}

	RankEntries(entries)

	if entries[0].UserID != 3 {
		t.Fatalf("expected p3 (110 pts) first, got %+v", entries[0])
	}
	if entries[1].UserID != 2 {
		t.Fatalf("expected p2 (100 pts, 15 min) second, got %+v", entries[1])
	}
	if entries[2].UserID != 1 {
		t.Fatalf("expected p1 (100 pts, 20 min) last, got %+v", entries[2])
	}
}

func TestRankEntriesZeroSolvedSortsLast(t *testing.T) {
	// 零通过者没有有效用时，同分时排在有成绩者之后
	entries := []LeaderboardEntry{
		{UserID: 1, Username: "idle", TotalPoints: 0},
		{UserID: 2, Username: "slow", NormalSolved: 1, TotalPoints: 0, TotalTimeMinutes: 90},
	}

	RankEntries(entries)

	if entries[0].UserID != 2 {
		t.Fatalf("participant with an accepted answer should rank above zero-solved, got %+v", entries[0])
	}
}

func TestRankEntriesUsernameTiebreak(t *testing.T) {
	entries := []LeaderboardEntry{
		{UserID: 2, Username: "bob", NormalSolved: 2, TotalPoints: 20, TotalTimeMinutes: 10},
		{UserID: 1, Username: "alice", NormalSolved: 2, TotalPoints: 20, TotalTimeMinutes: 10},
	}

	RankEntries(entries)

	if entries[0].Username != "alice" {
		t.Fatalf("expected username tiebreak, got %q first", entries[0].Username)
	}
}

func TestBuildEntriesAcceptedOnly(t *testing.T) {
	// 题库 3 道普通题全对、1 道附加题被拒：只算通过的 30 分
	first := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	last := first.Add(45 * time.Minute)

	users := []model.User{makeUser(1, "runner")}
	stats := []repository.AcceptedStat{
		{UserID: 1, NormalSolved: 3, BonusSolved: 0, TotalPoints: 30, FirstAccepted: timePtr(first), LastAccepted: timePtr(last)},
	}

	entries := BuildEntries(users, stats)

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.NormalSolved != 3 || e.BonusSolved != 0 || e.TotalPoints != 30 {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.TotalTimeMinutes != 45 {
		t.Fatalf("expected 45 minutes elapsed, got %d", e.TotalTimeMinutes)
	}
	if e.LastSubmissionTime == nil || !e.LastSubmissionTime.Equal(last) {
		t.Fatalf("unexpected last submission time: %v", e.LastSubmissionTime)
	}
}

func TestBuildEntriesIncludesZeroAccepted(t *testing.T) {
	users := []model.User{makeUser(1, "active"), makeUser(2, "idle")}
	stats := []repository.AcceptedStat{
		{UserID: 1, NormalSolved: 1, TotalPoints: 10},
	}

	entries := BuildEntries(users, stats)

	if len(entries) != 2 {
		t.Fatalf("expected all participants on the board, got %d entries", len(entries))
	}
	var idle *LeaderboardEntry
	for i := range entries {
		if entries[i].UserID == 2 {
			idle = &entries[i]
		}
	}
	if idle == nil {
		t.Fatal("zero-accepted participant missing from the board")
	}
	if idle.TotalPoints != 0 || idle.TotalTimeMinutes != 0 || idle.LastSubmissionTime != nil {
		t.Fatalf("zero-accepted participant should have empty stats, got %+v", idle)
	}
}

func TestNextCursorAdvancesToLastDelivered(t *testing.T) {
	since := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []model.ActivityLog{
		{CreatedAt: since.Add(10 * time.Second)},
		{CreatedAt: since.Add(25 * time.Second)},
	}

	got := NextCursor(since, entries)
	if !got.Equal(since.Add(25 * time.Second)) {
		t.Fatalf("cursor must land on the last delivered event, got %v", got)
	}
}

func TestNextCursorHoldsWhenNothingDelivered(t *testing.T) {
	// 游标不许用服务器当前时间推进：一个已取到时间戳但尚未提交的
	// 事务的行会被 strictly-greater 过滤永远跳过。没有新事件时原地不动
	since := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	got := NextCursor(since, nil)
	if !got.Equal(since) {
		t.Fatalf("empty delta must not advance the cursor: %v -> %v", since, got)
	}
}

func TestBuildEntriesSingleAcceptedHasZeroElapsed(t *testing.T) {
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	users := []model.User{makeUser(1, "one")}
	stats := []repository.AcceptedStat{
		{UserID: 1, NormalSolved: 1, TotalPoints: 10, FirstAccepted: timePtr(at), LastAccepted: timePtr(at)},
	}

	entries := BuildEntries(users, stats)

	if entries[0].TotalTimeMinutes != 0 {
		t.Fatalf("single accepted answer should yield 0 elapsed minutes, got %d", entries[0].TotalTimeMinutes)
	}
}
