package service

// Page 统一分页出参：items + total + 窗口回显
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// pageWindow page 从 0 起；size 出界回落默认值
func pageWindow(page, size int) (offset, limit, p, s int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page * size, size, page, size
}
