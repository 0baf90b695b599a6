package entity

import (
	"time"
	"xtvredirect/lib/validate"
)

// RedirectRecord maps a public deep-link code to a private channel.
// Code, CatalogId, MediaType and ChannelId never change after creation;
// InviteLink is replaced on regeneration, UsedCount and LastUsedAt on every redemption.
type RedirectRecord struct {
	Code       string     `json:"code" bson:"code" validate:"required,alphanum"`
	SeriesName string     `json:"series_name" bson:"series_name" validate:"required"`
	CatalogId  int64      `json:"tmdb_id" bson:"tmdb_id" validate:"required,gt=0"`
	MediaType  MediaType  `json:"media_type" bson:"media_type" validate:"required,oneof=movie series tv"`
	ChannelId  int64      `json:"private_channel_id" bson:"private_channel_id" validate:"required"`
	InviteLink string     `json:"invite_link" bson:"invite_link" validate:"required,url"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	UsedCount  int64      `json:"used_count" bson:"used_count" validate:"gte=0"`
	LastUsedAt *time.Time `json:"last_used,omitempty" bson:"last_used"`
}

func (r *RedirectRecord) Validate() error {
	return validate.Struct(r)
}

// HasChannel reports whether the record still points somewhere an invite can be minted for.
func (r *RedirectRecord) HasChannel() bool {
	return r.ChannelId != 0
}
