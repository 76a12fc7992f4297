package domain

// Page 一页文章，页码从 1 开始
type Page struct {
	Items      []Post `json:"items"`
	Number     int    `json:"number"`
	Size       int    `json:"size"`
	TotalItems int64  `json:"totalItems"`
	TotalPages int    `json:"totalPages"`
	HasPrev    bool   `json:"hasPrev"`
	HasNext    bool   `json:"hasNext"`
}

// ClampPage 页码越界时收敛到 [1, 最后一页]，空集合视为 1 页
func ClampPage(page int, total int64, size int) (number, pages int) {
	if size <= 0 {
		size = 1
	}
	pages = int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}
	number = page
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}
	return number, pages
}
