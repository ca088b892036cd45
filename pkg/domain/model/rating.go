package model

// Rating 单条用户评分
type Rating struct {
	AnimeID string `json:"animeId"`
	UserID  string `json:"userId"`
	Rating  int    `json:"rating"`
	Date    string `json:"date,omitempty"`
}

// RatingSummary 某部番剧或某个用户的评分汇总
type RatingSummary struct {
	AnimeID       string    `json:"animeId,omitempty"`
	UserID        string    `json:"userId,omitempty"`
	AverageRating float64   `json:"averageRating"`
	TotalRatings  int       `json:"totalRatings"`
	Ratings       []*Rating `json:"ratings"`
}

// Summarize 计算平均分，保留两位小数
func Summarize(ratings []*Rating) (avg float64, total int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	avg = float64(sum) / float64(len(ratings))
	return float64(int(avg*100+0.5)) / 100, len(ratings)
}
