package dto

import (
	"strings"
	"time"

	"desaku_backend/internals/features/events/model"
	"desaku_backend/internals/helpers/apperror"
	"desaku_backend/internals/helpers/dbtime"

	"github.com/lib/pq"
)

type CreateEventRequest struct {
	Title       string   `json:"event_title"       form:"event_title"       validate:"required,min=3,max=200"`
	Description *string  `json:"event_description" form:"event_description" validate:"omitempty,max=5000"`
	Location    *string  `json:"event_location"    form:"event_location"    validate:"omitempty,max=200"`
	StartAt     string   `json:"event_start_at"    form:"event_start_at"    validate:"required"`
	EndAt       *string  `json:"event_end_at"      form:"event_end_at"`
	Tags        []string `json:"event_tags"        form:"event_tags"        validate:"omitempty,max=10,dive,max=40"`
}

func (r CreateEventRequest) ToModel() (model.EventModel, error) {
	start, err := ParseTime("event_start_at", r.StartAt)
	if err != nil {
		return model.EventModel{}, err
	}
	m := model.EventModel{
		EventTitle:       strings.TrimSpace(r.Title),
		EventDescription: r.Description,
		EventLocation:    r.Location,
		EventStartAt:     start,
		EventTags:        NormalizeTags(r.Tags),
	}
	if r.EndAt != nil && strings.TrimSpace(*r.EndAt) != "" {
		end, err := ParseTime("event_end_at", *r.EndAt)
		if err != nil {
			return model.EventModel{}, err
		}
		m.EventEndAt = &end
	}
	return m, CheckRange(m)
}

type UpdateEventRequest struct {
	Title       *string   `json:"event_title"       form:"event_title"       validate:"omitempty,min=3,max=200"`
	Description *string   `json:"event_description" form:"event_description" validate:"omitempty,max=5000"`
	Location    *string   `json:"event_location"    form:"event_location"    validate:"omitempty,max=200"`
	StartAt     *string   `json:"event_start_at"    form:"event_start_at"`
	EndAt       *string   `json:"event_end_at"      form:"event_end_at"`
	Tags        *[]string `json:"event_tags"        form:"event_tags"        validate:"omitempty,max=10,dive,max=40"`
}

// Apply mengembalikan true bila judul berubah. end_at "" menghapus waktu selesai.
func (r UpdateEventRequest) Apply(m *model.EventModel) (bool, error) {
	renamed := false
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		renamed = t != m.EventTitle
		m.EventTitle = t
	}
	if r.Description != nil {
		m.EventDescription = r.Description
	}
	if r.Location != nil {
		m.EventLocation = r.Location
	}
	if r.StartAt != nil {
		start, err := ParseTime("event_start_at", *r.StartAt)
		if err != nil {
			return false, err
		}
		m.EventStartAt = start
	}
	if r.EndAt != nil {
		if strings.TrimSpace(*r.EndAt) == "" {
			m.EventEndAt = nil
		} else {
			end, err := ParseTime("event_end_at", *r.EndAt)
			if err != nil {
				return false, err
			}
			m.EventEndAt = &end
		}
	}
	if r.Tags != nil {
		m.EventTags = NormalizeTags(*r.Tags)
	}
	return renamed, CheckRange(*m)
}

// ParseTime menerima RFC3339, "YYYY-MM-DD HH:MM" (WIB) atau tanggal saja.
func ParseTime(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, dbtime.Location()); err == nil {
		return t, nil
	}
	if t, err := dbtime.ParseDate(s); err == nil {
		return t, nil
	}
	return time.Time{}, apperror.ValidationField(field, "format waktu tidak dikenali")
}

func CheckRange(m model.EventModel) error {
	if m.EventEndAt != nil && m.EventEndAt.Before(m.EventStartAt) {
		return apperror.ValidationField("event_end_at", "waktu selesai sebelum waktu mulai")
	}
	return nil
}

// NormalizeTags: huruf kecil, tanpa spasi tepi, tanpa duplikat.
func NormalizeTags(in []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
