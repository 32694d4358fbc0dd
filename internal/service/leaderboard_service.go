package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"trailhunt_backend/internal/config"
	"trailhunt_backend/internal/model"
	"trailhunt_backend/internal/repository"

	"github.com/go-redis/redis/v8"
)

const leaderboardCacheKey = "trailhunt:leaderboard"

type LeaderboardService struct {
	UserRepo     *repository.UserRepository
	AnswerRepo   *repository.AnswerRepository
	ActivityRepo *repository.ActivityLogRepository
	Redis        *redis.Client
	Cfg          *config.Config
}

func NewLeaderboardService(
	userRepo *repository.UserRepository,
	answerRepo *repository.AnswerRepository,
	activityRepo *repository.ActivityLogRepository,
	rdb *redis.Client,
	cfg *config.Config,
) *LeaderboardService {
	return &LeaderboardService{
		UserRepo:     userRepo,
		AnswerRepo:   answerRepo,
		ActivityRepo: activityRepo,
		Redis:        rdb,
		Cfg:          cfg,
	}
}

// LeaderboardEntry 排行榜单行
// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	UserID             uint       `json:"userId"`
	Username           string     `json:"username"`
	NormalSolved       int        `json:"normalSolved"`
	BonusSolved        int        `json:"bonusSolved"`
	TotalPoints        int        `json:"totalPoints"`
	TotalTimeMinutes   int        `json:"totalTimeMinutes"`
	LastSubmissionTime *time.Time `json:"lastSubmissionTime,omitempty"`
}

// Results 聚合所有参赛者的审核通过情况并排名。结果短暂缓存在
// Redis，审核动作会主动失效
func (s *LeaderboardService) Results(ctx context.Context) ([]LeaderboardEntry, error) {
	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var cached []LeaderboardEntry
			if json.Unmarshal([]byte(val), &cached) == nil {
				return cached, nil
			}
		}
	}

	users, err := s.UserRepo.ListParticipants()
	if err != nil {
		return nil, err
	}
	stats, err := s.AnswerRepo.AcceptedStats()
	if err != nil {
		return nil, err
	}

	entries := BuildEntries(users, stats)
	RankEntries(entries)

	if s.Redis != nil {
		if data, err := json.Marshal(entries); err == nil {
			ttl := time.Duration(s.Cfg.HuntRules().LeaderboardCacheSeconds) * time.Second
			s.Redis.Set(ctx, leaderboardCacheKey, data, ttl)
		}
	}
	return entries, nil
}

// BuildEntries 把聚合统计对齐到全部参赛者；没有任何通过记录的
// 参赛者也出现在榜上，用时记 0
func BuildEntries(users []model.User, stats []repository.AcceptedStat) []LeaderboardEntry {
	byUser := make(map[uint]repository.AcceptedStat, len(stats))
	for _, st := range stats {
		byUser[st.UserID] = st
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entry := LeaderboardEntry{UserID: u.ID, Username: u.Username}
		if st, ok := byUser[u.ID]; ok {
			entry.NormalSolved = st.NormalSolved
			entry.BonusSolved = st.BonusSolved
			entry.TotalPoints = st.TotalPoints
			entry.LastSubmissionTime = st.LastAccepted
			if st.FirstAccepted != nil && st.LastAccepted != nil {
				entry.TotalTimeMinutes = int(st.LastAccepted.Sub(*st.FirstAccepted).Minutes())
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// RankEntries 总分降序，同分用时升序（快者在前）。
// 零通过者没有有效用时，同分时排在有成绩者之后；
// 最后按用户名排序保证结果稳定
func RankEntries(entries []LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		aSolved := a.NormalSolved+a.BonusSolved > 0
		bSolved := b.NormalSolved+b.BonusSolved > 0
		if aSolved != bSolved {
			return aSolved
		}
		if aSolved && a.TotalTimeMinutes != b.TotalTimeMinutes {
			return a.TotalTimeMinutes < b.TotalTimeMinutes
		}
		return a.Username < b.Username
	})
}

// ChangesResult 增量视图：严格晚于游标的事件加上下一次轮询用的游标
type ChangesResult struct {
	Changes    []model.ActivityLog `json:"changes"`
	NextCursor time.Time           `json:"nextCursor"`
}

// ChangesSince 只读。错过的轮询窗口会并入之后更大的增量，不会丢失
func (s *LeaderboardService) ChangesSince(since time.Time, userID *uint) (*ChangesResult, error) {
	var (
		entries []model.ActivityLog
		err     error
	)
	if userID != nil {
		entries, err = s.ActivityRepo.ListSinceForUser(since, *userID)
	} else {
		entries, err = s.ActivityRepo.ListSince(since)
	}
	if err != nil {
		return nil, err
	}
	return &ChangesResult{Changes: entries, NextCursor: NextCursor(since, entries)}, nil
}

// NextCursor 推进到本次交付的最后一条事件，没有新事件时游标原地不动。
// 不能用服务器当前时间：事件的 created_at 在事务提交前就已生成，
// 一个正在提交中的事务可能持有更早的时间戳，用当前时间作游标会把
// 这类行永远挡在 strictly-greater 窗口之外
func NextCursor(since time.Time, entries []model.ActivityLog) time.Time {
	cursor := since
	for _, e := range entries {
		if e.CreatedAt.After(cursor) {
			cursor = e.CreatedAt
		}
	}
	return cursor
}
