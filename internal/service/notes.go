package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jask/formdesk/internal/database/repository"
	"github.com/jask/formdesk/internal/table"
)

// ErrInvalidChoice is returned when a notes field holds a value outside its
// choice set.
var ErrInvalidChoice = errors.New("invalid choice")

var (
	WorkQualityChoices = []string{"excellent", "good", "average", "poor"}
	TimelinessChoices  = []string{"early", "on-time", "late", "very-late"}
	ProjectTypeChoices = []string{"photography", "film", "video", "motion", "design", "other"}
)

// Notes is the structured review attached to a row.
type Notes struct {
	WorkQuality     string `json:"workQuality"`
	Timeliness      string `json:"timeliness"`
	ProjectType     string `json:"projectType"`
	AdditionalNotes string `json:"additionalNotes"`
}

// Validate checks each choice field is empty or in its set.
func (n Notes) Validate() error {
	for _, c := range []struct {
		name, value string
		choices     []string
	}{
		{"work quality", n.WorkQuality, WorkQualityChoices},
		{"timeliness", n.Timeliness, TimelinessChoices},
		{"project type", n.ProjectType, ProjectTypeChoices},
	} {
		if c.value != "" && !contains(c.choices, c.value) {
			return fmt.Errorf("%s %q: %w", c.name, c.value, ErrInvalidChoice)
		}
	}
	return nil
}

// Encode serializes notes to the stored JSON string.
func (n Notes) Encode() (string, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// IsZero reports whether nothing was entered.
func (n Notes) IsZero() bool { return n == Notes{} }

// ParseNotes decodes stored notes. Text that is not a notes object is kept
// as AdditionalNotes.
func ParseNotes(s string) Notes {
	s = strings.TrimSpace(s)
	if s == "" {
		return Notes{}
	}
	var n Notes
	if strings.HasPrefix(s, "{") && json.Unmarshal([]byte(s), &n) == nil {
		return n
	}
	return Notes{AdditionalNotes: s}
}

// NotesService persists notes.
type NotesService struct {
	Submissions *repository.RecordRepo
	CreatorLog  *repository.RecordRepo
	Timeout     time.Duration
	Log         *zap.Logger
}

// Save validates and stores notes for row, returning the stored string.
// The record is looked up in the row's origin table, by its stored Token when
// it has one and by id otherwise.
func (s *NotesService) Save(ctx context.Context, row table.Row, notes Notes) (string, error) {
	if err := notes.Validate(); err != nil {
		return "", err
	}
	encoded, err := notes.Encode()
	if err != nil {
		return "", fmt.Errorf("encode notes: %w", err)
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	repo := s.Submissions
	if row.Origin == table.OriginCreatorLog {
		repo = s.CreatorLog
	}
	if repo == nil {
		return "", fmt.Errorf("no store for %s", row.Origin)
	}

	if tok := row.StoredToken(); tok != "" {
		err = repo.UpdateNotesByToken(ctx, tok, encoded)
	} else {
		err = repo.UpdateNotesByID(ctx, row.ID, encoded)
	}
	if err != nil {
		return "", fmt.Errorf("save notes for %s: %w", row.Token(), err)
	}
	if s.Log != nil {
		s.Log.Info("notes saved", zap.String("table", string(repo.Table())), zap.String("key", row.Token()))
	}
	return encoded, nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
