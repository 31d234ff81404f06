package services

import (
	"fmt"
	"net/url"

	"blog-catalog/models"
	"blog-catalog/query"
)

const categoriesKey = "categories"

func snapshotKey(kind models.SourceKind) string {
	return "snapshot:" + string(kind)
}

// listKey builds "list:{page}:{limit}:cat={category}".
// An empty category and "All" both mean no filter and share the empty cat= value.
func listKey(page, limit int, category string) string {
	return fmt.Sprintf("list:%d:%d:cat=%s", page, limit, categoryPart(category))
}

// searchKey builds "search:{page}:{limit}:cat={category}:q={query}".
// query must already be trimmed and lowercased.
func searchKey(page, limit int, category, q string) string {
	return fmt.Sprintf("search:%d:%d:cat=%s:q=%s", page, limit, categoryPart(category), url.QueryEscape(q))
}

// categoryPart escapes user input so ':' and '=' cannot forge another key.
func categoryPart(category string) string {
	if category == "" || category == query.AllCategory {
		return ""
	}
	return url.QueryEscape(category)
}

func postKey(slugOrID string) string {
	return "post:" + slugOrID
}
