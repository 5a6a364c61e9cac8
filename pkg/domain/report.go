package domain

import "time"

// AuthorPayout is a per-author payout row with an editable rate
type AuthorPayout struct {
	Author     string  `json:"author"`
	Articles   int     `json:"articles"`
	PayoutRate float64 `json:"payoutRate"`
}

// Amount returns articles multiplied by rate
func (p AuthorPayout) Amount() float64 {
	return float64(p.Articles) * p.PayoutRate
}

// ExportRow is a single article flattened for CSV and PDF export.
// Column order is fixed: title, author, description, published at, url.
type ExportRow [5]string

// ExportHeader is the header row used by all export formats
var ExportHeader = ExportRow{"Title", "Author", "Description", "Published At", "URL"}

// FetchStatus describes outcome of a news search
type FetchStatus string

// enum of fetch outcomes
const (
	FetchOK             FetchStatus = "ok"
	FetchUpstreamError  FetchStatus = "upstream_error"
	FetchTransportError FetchStatus = "transport_error"
)

// FetchRecord is a log entry of a single news search
type FetchRecord struct {
	ID        int64       `json:"id"`
	Session   string      `json:"session"`
	Query     string      `json:"query"`
	Source    string      `json:"source"`
	Status    FetchStatus `json:"status"`
	Message   string      `json:"message,omitempty"`
	Articles  int         `json:"articles"`
	CreatedAt time.Time   `json:"createdAt"`
}
