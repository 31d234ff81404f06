package models

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrUpstreamUnavailable means the upstream fetch failed or answered with a non-2xx status.
// It is distinct from a successful fetch of zero records.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// SourceKind identifies which upstream shape a record came from.
type SourceKind string

const (
	SourceNotion SourceKind = "notion"
	SourceSQL    SourceKind = "sql"
	SourceMongo  SourceKind = "mongo"
)

// RawRecord is implemented only by *RawNotionRecord and *RawTableRow.
type RawRecord interface {
	rawRecord()
}

// RawNotionRecord is one page of a Notion database query.
// Properties stay undecoded; each field extractor decodes only what it needs.
type RawNotionRecord struct {
	ID          string                     `json:"id"`
	CreatedTime string                     `json:"created_time"`
	URL         string                     `json:"url"`
	Properties  map[string]json.RawMessage `json:"properties"`
}

func (*RawNotionRecord) rawRecord() {}

// RawTableRow is a flat row from the posts table.
// Nullable columns are pointers so NULL stays distinguishable from "".
type RawTableRow struct {
	ID                 string     `bson:"id" db:"id"`
	Title              *string    `bson:"title" db:"title"`
	Summary            *string    `bson:"summary" db:"summary"`
	Excerpt            *string    `bson:"excerpt" db:"excerpt"`
	Category           *string    `bson:"category" db:"category"`
	Tags               *string    `bson:"tags" db:"tags"`
	R2ImageURL         *string    `bson:"r2_image_url" db:"r2_image_url"`
	NotionURL          *string    `bson:"notion_url" db:"notion_url"`
	NotionLastEditedAt *time.Time `bson:"notion_last_edited_at" db:"notion_last_edited_at"`
	MinsRead           *int       `bson:"mins_read" db:"mins_read"`
	CreatedAt          *time.Time `bson:"created_at" db:"created_at"`
}

func (*RawTableRow) rawRecord() {}
