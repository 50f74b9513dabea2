package views

// Paginator keeps a cursor inside a scrolling window over a list of lines
type Paginator struct {
	pageSize   int
	pageOffset int
	cursor     int
	totalItems int
}

// NewPaginator creates a new paginator with the given page size
func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Paginator{
		pageSize: pageSize,
	}
}

// SetPageSize changes the window height, e.g. after a terminal resize
func (p *Paginator) SetPageSize(size int) {
	if size <= 0 {
		size = 1
	}
	p.pageSize = size
	p.scroll()
}

// SetTotal sets the total number of items
func (p *Paginator) SetTotal(total int) {
	p.totalItems = total
	if p.cursor >= total {
		p.cursor = total - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	p.scroll()
}

// Total returns the number of items
func (p *Paginator) Total() int {
	return p.totalItems
}

// Cursor returns the current cursor position (absolute index)
func (p *Paginator) Cursor() int {
	return p.cursor
}

// SetCursor sets the cursor position, clamped to the list
func (p *Paginator) SetCursor(pos int) {
	if pos >= p.totalItems {
		pos = p.totalItems - 1
	}
	if pos < 0 {
		pos = 0
	}
	p.cursor = pos
	p.scroll()
}

// CursorUp moves the cursor up by one
func (p *Paginator) CursorUp() bool {
	if p.cursor > 0 {
		p.cursor--
		p.scroll()
		return true
	}
	return false
}

// CursorDown moves the cursor down by one
func (p *Paginator) CursorDown() bool {
	if p.cursor < p.totalItems-1 {
		p.cursor++
		p.scroll()
		return true
	}
	return false
}

// PageDown moves the cursor one window down
func (p *Paginator) PageDown() {
	p.SetCursor(p.cursor + p.pageSize)
}

// PageUp moves the cursor one window up
func (p *Paginator) PageUp() {
	p.SetCursor(p.cursor - p.pageSize)
}

// VisibleRange returns the start and end indices of the window
func (p *Paginator) VisibleRange() (start, end int) {
	start = p.pageOffset
	end = min(p.pageOffset+p.pageSize, p.totalItems)
	return
}

// scroll moves the window the least needed to show the cursor
func (p *Paginator) scroll() {
	if p.cursor < p.pageOffset {
		p.pageOffset = p.cursor
	} else if p.cursor >= p.pageOffset+p.pageSize {
		p.pageOffset = p.cursor - p.pageSize + 1
	}
	if maxOffset := max(p.totalItems-p.pageSize, 0); p.pageOffset > maxOffset {
		p.pageOffset = maxOffset
	}
}
