package importer

import (
	"math"
	"strconv"
	"strings"

	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
)

// csvRow 原始 CSV 行，所有列按字符串读取，缺失的列为空串
type csvRow struct {
	Title    string `csv:"title"`
	Year     string `csv:"year"`
	Genres   string `csv:"genres"`
	Type     string `csv:"type"`
	Episodes string `csv:"episodes"`
	Score    string `csv:"score"`
}

// normalizeRow 标题为空时返回 false
func normalizeRow(row *csvRow, source string) (*model.Anime, bool) {
	title := strings.TrimSpace(row.Title)
	if title == "" {
		return nil, false
	}
	anime := &model.Anime{
		Title:  title,
		Genres: ParseGenres(row.Genres),
		Type:   strings.TrimSpace(row.Type),
		Source: source,
	}
	if year, ok := parseNumber(row.Year); ok {
		anime.Year = model.IntPtr(int(year))
	}
	if episodes, ok := parseNumber(row.Episodes); ok && episodes >= 0 {
		anime.Episodes = model.IntPtr(int(episodes))
	}
	if score, ok := parseNumber(row.Score); ok {
		anime.Score = model.FloatPtr(score)
	}
	return anime, true
}

// parseNumber 解析有限数值；空串、"Unknown" 等无法解析的值返回 false
func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// ParseGenres 解析形如 "['Action', 'Drama']" 的伪列表，格式不符时返回空列表
func ParseGenres(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		return []string{}
	}
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")

	genres := make([]string, 0)
	for _, part := range strings.Split(trimmed, ",") {
		part = strings.NewReplacer("'", "", `"`, "").Replace(part)
		part = strings.TrimSpace(part)
		if part != "" {
			genres = append(genres, part)
		}
	}
	return genres
}
