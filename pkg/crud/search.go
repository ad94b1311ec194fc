package crud

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SearchOptions carries the paging fields shared by every search object.
// Concrete search types embed it alongside their filter fields.
type SearchOptions struct {
	Page              int  `form:"page" json:"page"`
	PageSize          int  `form:"page_size" json:"page_size"`
	RetrieveAll       bool `form:"retrieve_all" json:"retrieve_all"`
	IncludeTotalCount bool `form:"include_total_count" json:"include_total_count"`
}

// Options makes any type embedding SearchOptions satisfy Searcher.
func (o SearchOptions) Options() SearchOptions { return o }

// Limits translates the paging fields into a limit/offset pair.
// Page is zero-based: offset = page * pageSize.
// RetrieveAll is signalled with limit = -1.
func (o SearchOptions) Limits() (limit, offset int) {
	if o.RetrieveAll {
		return -1, 0
	}

	size := o.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	page := o.Page
	if page < 0 {
		page = 0
	}

	return size, page * size
}

// Searcher is satisfied by embedding SearchOptions.
type Searcher interface {
	Options() SearchOptions
}

// Result is the outcome of a filtered Get: the page of mapped responses plus
// the total matching count when the search asked for it.
type Result[R any] struct {
	Items      []R    `json:"items"`
	TotalCount *int64 `json:"total_count,omitempty"`
}
