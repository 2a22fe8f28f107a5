package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"qurio_backend/internal/config"
	"qurio_backend/internal/model"
	"qurio_backend/internal/repository"
	"qurio_backend/internal/util"
	"sort"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	dashboardCacheTTL = 30 * time.Second
	trendDays         = 7
	popularLimit      = 5
	recentLimit       = 5
	titleMaxLen       = 15
)

// AnalyticsService 仪表盘与测验统计
type AnalyticsService struct {
	AnalyticsRepo *repository.AnalyticsRepository
	QuizRepo      *repository.QuizRepository
	UserRepo      *repository.UserRepository
	AttemptRepo   *repository.AttemptRepository
	Redis         *redis.Client

	mu           sync.RWMutex
	passingScore float64
}

func NewAnalyticsService(
	analyticsRepo *repository.AnalyticsRepository,
	quizRepo *repository.QuizRepository,
	userRepo *repository.UserRepository,
	attemptRepo *repository.AttemptRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *AnalyticsService {
	return &AnalyticsService{
		AnalyticsRepo: analyticsRepo,
		QuizRepo:      quizRepo,
		UserRepo:      userRepo,
		AttemptRepo:   attemptRepo,
		Redis:         redisClient,
		passingScore:  cfg.Quiz.PassingScore,
	}
}

// SetPassingScore 配置热更新时调整及格线
func (s *AnalyticsService) SetPassingScore(score float64) {
	s.mu.Lock()
	s.passingScore = score
	s.mu.Unlock()
}

// PassingScore 当前及格线
func (s *AnalyticsService) PassingScore() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.passingScore
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// truncateTitle 图表标签超过 15 个字符时截断
func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= titleMaxLen {
		return title
	}
	return string(runes[:titleMaxLen]) + "..."
}

// GetDashboard 仪表盘数据，authorID 为 0 时返回全局（管理员）视角。
// 结果在 Redis 中缓存 30 秒。
func (s *AnalyticsService) GetDashboard(ctx context.Context, authorID uint) (*model.Dashboard, error) {
	cacheKey := fmt.Sprintf("qurio:dashboard:%d", authorID)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var dashboard model.Dashboard
			if json.Unmarshal([]byte(cached), &dashboard) == nil {
				return &dashboard, nil
			}
		}
	}

	dashboard, err := s.buildDashboard(authorID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(dashboard); err == nil {
			s.Redis.Set(ctx, cacheKey, payload, dashboardCacheTTL)
		}
	}
	return dashboard, nil
}

func (s *AnalyticsService) buildDashboard(authorID uint) (*model.Dashboard, error) {
	attempts, err := s.AnalyticsRepo.FindCompletedAttempts(authorID)
	if err != nil {
		return nil, err
	}

	summary, err := s.buildSummary(authorID, attempts)
	if err != nil {
		return nil, err
	}

	popular, err := s.AnalyticsRepo.FindPopularQuizzes(authorID, popularLimit)
	if err != nil {
		return nil, err
	}
	for i := range popular {
		popular[i].Name = truncateTitle(popular[i].Name)
	}

	recent, err := s.buildRecentActivity(authorID)
	if err != nil {
		return nil, err
	}

	return &model.Dashboard{
		Summary: *summary,
		Charts: model.DashboardCharts{
			PopularQuizzes:  popular,
			EngagementTrend: buildTrend(attempts),
		},
		RecentActivity: recent,
	}, nil
}

func (s *AnalyticsService) buildSummary(authorID uint, attempts []model.QuizAttempt) (*model.DashboardSummary, error) {
	summary := &model.DashboardSummary{}

	if authorID == 0 {
		totalUsers, err := s.UserRepo.Count()
		if err != nil {
			return nil, err
		}
		totalAuthors, err := s.UserRepo.CountByRole(model.Author)
		if err != nil {
			return nil, err
		}
		summary.TotalUsers = totalUsers
		summary.TotalAuthors = totalAuthors

		totalQuizzes, err := s.QuizRepo.Count()
		if err != nil {
			return nil, err
		}
		summary.TotalQuizzes = totalQuizzes
	} else {
		totalQuizzes, err := s.QuizRepo.CountByAuthor(authorID)
		if err != nil {
			return nil, err
		}
		summary.TotalQuizzes = totalQuizzes
	}

	activeQuizzes, err := s.QuizRepo.CountByStatus(model.QuizPublished, authorID)
	if err != nil {
		return nil, err
	}
	summary.ActiveQuizzes = activeQuizzes
	summary.TotalAttempts = int64(len(attempts))

	if len(attempts) == 0 {
		return summary, nil
	}

	passingScore := s.PassingScore()
	var scoreSum, durationSum float64
	var passed int
	for _, attempt := range attempts {
		if attempt.Score != nil {
			scoreSum += *attempt.Score
			if *attempt.Score >= passingScore {
				passed++
			}
		}
		if attempt.CompletedAt != nil {
			durationSum += attempt.CompletedAt.Sub(attempt.StartedAt).Minutes()
		}
	}

	n := float64(len(attempts))
	summary.GlobalAverageScore = round2(scoreSum / n)
	summary.PassRatePercentage = round2(float64(passed) / n * 100)
	summary.AvgDurationMinutes = round2(durationSum / n)
	return summary, nil
}

// buildTrend 近 7 天参与趋势，按完成日期（UTC）分桶并补零，标签为 MM-DD
func buildTrend(attempts []model.QuizAttempt) []model.TrendPoint {
	counts := make(map[string]int)
	for _, attempt := range attempts {
		if attempt.CompletedAt == nil {
			continue
		}
		day := attempt.CompletedAt.UTC().Format("2006-01-02")
		counts[day]++
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	trend := make([]model.TrendPoint, 0, trendDays)
	for i := trendDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")
		trend = append(trend, model.TrendPoint{
			Date:  day[5:],
			Count: counts[day],
		})
	}
	return trend
}

func (s *AnalyticsService) buildRecentActivity(authorID uint) ([]model.RecentActivity, error) {
	recent, err := s.AnalyticsRepo.FindRecentCompleted(authorID, recentLimit)
	if err != nil {
		return nil, err
	}

	passingScore := s.PassingScore()
	activities := make([]model.RecentActivity, len(recent))
	for i, attempt := range recent {
		activity := model.RecentActivity{
			AttemptID: attempt.ID,
			Status:    "Gagal",
		}
		if attempt.Score != nil {
			activity.Score = round2(*attempt.Score)
			if *attempt.Score >= passingScore {
				activity.Status = "Lulus"
			}
		}
		if attempt.Participant != nil {
			activity.ParticipantName = attempt.Participant.Name
		}
		if attempt.Quiz != nil {
			activity.QuizTitle = attempt.Quiz.Title
		}
		if attempt.CompletedAt != nil {
			activity.TimeAgo = *attempt.CompletedAt
		}
		activities[i] = activity
	}
	return activities, nil
}

// GetQuizAnalytics 单个测验的统计与排行榜，仅测验作者与管理员可见。
// 排行榜按分数降序，分数相同时用时短者在前。
func (s *AnalyticsService) GetQuizAnalytics(quizID string, userID uint, role model.UserRole) (*model.QuizAnalytics, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if quiz.AuthorID != userID && role != model.Admin {
		return nil, util.ErrNotOwner
	}

	attempts, err := s.AnalyticsRepo.FindCompletedAttemptsByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	analytics := &model.QuizAnalytics{
		QuizTitle:     quiz.Title,
		TotalAttempts: len(attempts),
		Leaderboard:   make([]model.LeaderboardEntry, 0, len(attempts)),
	}
	if len(attempts) == 0 {
		return analytics, nil
	}

	var scoreSum float64
	highest := math.Inf(-1)
	lowest := math.Inf(1)
	for _, attempt := range attempts {
		score := 0.0
		if attempt.Score != nil {
			score = *attempt.Score
		}
		scoreSum += score
		if score > highest {
			highest = score
		}
		if score < lowest {
			lowest = score
		}

		entry := model.LeaderboardEntry{
			AttemptID: attempt.ID,
			Score:     round2(score),
		}
		if attempt.Participant != nil {
			entry.Participant = attempt.Participant.Name
			entry.Username = attempt.Participant.Username
		}
		if attempt.CompletedAt != nil {
			entry.CompletedAt = *attempt.CompletedAt
			entry.DurationMinutes = round2(attempt.CompletedAt.Sub(attempt.StartedAt).Minutes())
		}
		analytics.Leaderboard = append(analytics.Leaderboard, entry)
	}

	sort.SliceStable(analytics.Leaderboard, func(i, j int) bool {
		a, b := analytics.Leaderboard[i], analytics.Leaderboard[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.DurationMinutes < b.DurationMinutes
	})

	analytics.AverageScore = round2(scoreSum / float64(len(attempts)))
	analytics.HighestScore = round2(highest)
	analytics.LowestScore = round2(lowest)
	return analytics, nil
}

// ListAttempts 管理端全局作答列表
func (s *AnalyticsService) ListAttempts(page, limit int, filter repository.AttemptFilter) ([]model.QuizAttempt, int64, error) {
	return s.AttemptRepo.FindPaginated(page, limit, filter)
}

// GetAttemptDetail 单次作答详情，测验作者与管理员可见
func (s *AnalyticsService) GetAttemptDetail(attemptID string, userID uint, role model.UserRole) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindByIDFull(attemptID)
	if err != nil {
		return nil, util.ErrAttemptNotFound
	}
	if role != model.Admin {
		if attempt.Quiz == nil || attempt.Quiz.AuthorID != userID {
			return nil, util.ErrNotOwner
		}
	}
	return attempt, nil
}
