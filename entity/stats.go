package entity

import "time"

type Stats struct {
	TotalLinks  int64 `json:"total_links"`
	TotalServed int64 `json:"total_served"`
}

// RedirectSummary is a record as listed by the API, without its invite link.
type RedirectSummary struct {
	Code       string     `json:"code"`
	SeriesName string     `json:"series_name"`
	MediaType  MediaType  `json:"media_type"`
	UsedCount  int64      `json:"used_count"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used,omitempty"`
}

type RedirectPage struct {
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Total    int64             `json:"total"`
	Items    []RedirectSummary `json:"items"`
}

func (r *RedirectRecord) Summary() RedirectSummary {
	return RedirectSummary{
		Code:       r.Code,
		SeriesName: r.SeriesName,
		MediaType:  r.MediaType.Canonical(),
		UsedCount:  r.UsedCount,
		CreatedAt:  r.CreatedAt,
		LastUsedAt: r.LastUsedAt,
	}
}
