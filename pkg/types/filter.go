package types

// Filter carries list parameters parsed from the query string, e.g.
// /api/work-orders?search=OT-0001&sort[created_at]=desc&filter[status]=assigned,in_progress&limit=20
//
// Keys of Sort and Filter are matched against a per-repository allow-list; unknown keys are dropped.
type Filter struct {
	Search         string                 `json:"search,omitempty"`
	Sort           map[string]string      `json:"sort,omitempty"`
	Filter         map[string]interface{} `json:"filter,omitempty"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
	Page           int                    `json:"page"`
	WithPagination bool                   `json:"withPagination"`
}
