package table

// DefaultPageSize is the number of rows shown per page.
const DefaultPageSize = 100

// PageCount returns the number of pages needed for total rows; at least one.
func PageCount(total, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Bounds returns the half-open row range [from, to) of a page, clamped to total.
func Bounds(page, size, total int) (from, to int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 0 {
		page = 0
	}
	from = page * size
	if from > total {
		from = total
	}
	to = from + size
	if to > total {
		to = total
	}
	return from, to
}

// Page slices rows to a page.
func Page(rows []Row, page, size int) []Row {
	from, to := Bounds(page, size, len(rows))
	return rows[from:to]
}

// ClampPage keeps page within the valid range for total rows.
func ClampPage(page, size, total int) int {
	if page < 0 {
		return 0
	}
	if last := PageCount(total, size) - 1; page > last {
		return last
	}
	return page
}
