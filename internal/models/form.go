package models

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// FormItem is used for typed access to known item properties. Unknown
// properties set by the form builder UI pass through untouched inside
// the raw form_data payload.
type FormItem struct {
	ID        int      `json:"id"`
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Name      string   `json:"name,omitempty"`
	Required  bool     `json:"required,omitempty"`
	Options   []string `json:"options,omitempty"`
	VisibleIf string   `json:"visible_if,omitempty"`
}

// Section is one ordered block of a form's structure.
type Section struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Items       []FormItem `json:"items"`
}

// Form stores form_data as raw JSON to preserve all builder properties
// (layout, styling, custom keys). The slug is the public identifier and
// never changes after creation.
type Form struct {
	Slug               string         `db:"form_hash" json:"form_hash"`
	Name               string         `db:"form_name" json:"form_name"`
	CreatorEmail       string         `db:"creator_email" json:"creator_email"`
	FormData           types.JSONText `db:"form_data" json:"form_data"`
	BackgroundSettings types.JSONText `db:"background_settings" json:"background_settings,omitempty"`
	CloseTime          *time.Time     `db:"form_close_time" json:"form_close_time,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
}

// TypedSections converts the raw form_data payload to typed sections.
func (f *Form) TypedSections() []Section {
	if len(f.FormData) == 0 {
		return nil
	}
	var sections []Section
	if err := json.Unmarshal(f.FormData, &sections); err != nil {
		return nil
	}
	return sections
}

// Items flattens the form's items across sections in document order.
// Submission answers align to this ordering.
func (f *Form) Items() []FormItem {
	var items []FormItem
	for _, s := range f.TypedSections() {
		items = append(items, s.Items...)
	}
	return items
}
