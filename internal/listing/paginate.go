package listing

// Mode selects where paging happens.
type Mode int

const (
	// ServerPaged sends page and limit to the backend.
	ServerPaged Mode = iota
	// ClientPaged fetches the full result set and slices it locally.
	ClientPaged
)

func (m Mode) String() string {
	if m == ClientPaged {
		return "client"
	}
	return "server"
}

// ParseMode maps "client" to ClientPaged and anything else to ServerPaged.
func ParseMode(s string) Mode {
	if s == "client" {
		return ClientPaged
	}
	return ServerPaged
}

// PageCount is ceil(total/size); zero when either is non-positive.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// ClampPage keeps page within [1, pages]. With no pages it returns 1.
func ClampPage(page, pages int) int {
	if page < 1 || pages < 1 {
		return 1
	}
	if page > pages {
		return pages
	}
	return page
}

// Paginate returns the 1-based page of items. An out-of-range page is
// clamped to the nearest valid one.
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		return items
	}
	page = ClampPage(page, PageCount(len(items), size))
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := min(start+size, len(items))
	return items[start:end]
}

// Pages lists the page numbers 1..PageCount(total, size), one per
// pagination control.
func Pages(total, size int) []int {
	n := PageCount(total, size)
	pages := make([]int, n)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Filter keeps the items for which keep returns true.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
