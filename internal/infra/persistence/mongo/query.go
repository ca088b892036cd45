package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
)

// searchProjection 分页搜索只返回番剧字段，不包含 _id 与来源标记
var searchProjection = bson.D{
	{Key: "_id", Value: 0},
	{Key: "title", Value: 1},
	{Key: "year", Value: 1},
	{Key: "genres", Value: 1},
	{Key: "type", Value: 1},
	{Key: "episodes", Value: 1},
	{Key: "score", Value: 1},
}

// BuildFilter 将查询条件转换为 MongoDB 过滤文档，各条件之间为 AND
func BuildFilter(q *model.AnimeQuery) bson.D {
	filter := bson.D{}
	if q == nil {
		return filter
	}
	if q.Q != "" {
		filter = append(filter, titleContains(q.Q))
	}
	if q.Genre != "" {
		filter = append(filter, bson.E{Key: "genres", Value: bson.D{{Key: "$in", Value: bson.A{q.Genre}}}})
	}
	return filter
}

// BuildSort 将排序方式转换为排序文档，按年份排序时以标题升序作为次序
func BuildSort(key model.SortKey) bson.D {
	switch key {
	case model.SortTitleDesc:
		return bson.D{{Key: "title", Value: -1}}
	case model.SortYearAsc:
		return bson.D{{Key: "year", Value: 1}, {Key: "title", Value: 1}}
	case model.SortYearDesc:
		return bson.D{{Key: "year", Value: -1}, {Key: "title", Value: 1}}
	default:
		return bson.D{{Key: "title", Value: 1}}
	}
}

// titleContains 标题不区分大小写的子串匹配，用户输入按字面量处理
func titleContains(text string) bson.E {
	return bson.E{Key: "title", Value: bson.D{
		{Key: "$regex", Value: regexp.QuoteMeta(text)},
		{Key: "$options", Value: "i"},
	}}
}
