package model

import "time"

// DashboardSummary 仪表盘概要指标
type DashboardSummary struct {
	TotalUsers         int64   `json:"totalUsers,omitempty"`
	TotalAuthors       int64   `json:"totalAuthors,omitempty"`
	TotalQuizzes       int64   `json:"totalQuizzes"`
	ActiveQuizzes      int64   `json:"activeQuizzes"`
	TotalAttempts      int64   `json:"totalAttempts"`
	GlobalAverageScore float64 `json:"globalAverageScore"`
	PassRatePercentage float64 `json:"passRatePercentage"`
	AvgDurationMinutes float64 `json:"avgDurationMinutes"`
}

// TrendPoint 近 7 天参与趋势中的一个桶
type TrendPoint struct {
	Date  string `json:"date"` // MM-DD
	Count int    `json:"jumlahPengerjaan"`
}

// PopularQuiz 按参与次数排名的热门测验
type PopularQuiz struct {
	Name          string `json:"name"`
	TotalAttempts int64  `json:"totalPeserta"`
}

// RecentActivity 最近完成的一次作答
type RecentActivity struct {
	AttemptID       string    `json:"attemptId"`
	ParticipantName string    `json:"participantName"`
	QuizTitle       string    `json:"quizTitle"`
	Score           float64   `json:"score"`
	Status          string    `json:"status"` // Lulus / Gagal
	TimeAgo         time.Time `json:"timeAgo"`
}

// DashboardCharts 仪表盘图表数据
type DashboardCharts struct {
	PopularQuizzes  []PopularQuiz `json:"popularQuizzes"`
	EngagementTrend []TrendPoint  `json:"engagementTrend"`
}

// Dashboard 作者/管理员仪表盘完整负载
type Dashboard struct {
	Summary        DashboardSummary `json:"summary"`
	Charts         DashboardCharts  `json:"charts"`
	RecentActivity []RecentActivity `json:"recentActivity"`
}

// LeaderboardEntry 单个测验排行榜中的一行，按分数降序、用时升序排列
type LeaderboardEntry struct {
	AttemptID       string    `json:"attemptId"`
	Participant     string    `json:"participant"`
	Username        string    `json:"username"`
	Score           float64   `json:"score"`
	DurationMinutes float64   `json:"durationMinutes"`
	CompletedAt     time.Time `json:"completedAt"`
}

// QuizAnalytics 单个测验的统计与排行榜
type QuizAnalytics struct {
	QuizTitle     string             `json:"quizTitle"`
	TotalAttempts int                `json:"totalAttempts"`
	AverageScore  float64            `json:"averageScore"`
	HighestScore  float64            `json:"highestScore"`
	LowestScore   float64            `json:"lowestScore"`
	Leaderboard   []LeaderboardEntry `json:"leaderboard"`
}
