package domain

import (
	"time"
)

// BaseStatTarget is the target every character block starts with before any
// skill header is seen.
const BaseStatTarget = "기본 스탯"

type ChangeType string

const (
	ChangeBuff  ChangeType = "buff"
	ChangeNerf  ChangeType = "nerf"
	ChangeMixed ChangeType = "mixed"
)

type ChangeCategory string

const (
	CategoryNumeric  ChangeCategory = "numeric"
	CategoryMechanic ChangeCategory = "mechanic"
	CategoryAdded    ChangeCategory = "added"
	CategoryRemoved  ChangeCategory = "removed"
	CategoryUnknown  ChangeCategory = "unknown"
)

type PatchNote struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Link           string    `json:"link"`
	ThumbnailURL   string    `json:"thumbnailUrl,omitempty"`
	ViewCount      int       `json:"viewCount,omitempty"`
	CharacterNames []string  `json:"characterNames,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Change is either numeric (Stat, Before, After set) or descriptive
// (Description set).
type Change struct {
	Target         string         `json:"target"`
	Stat           string         `json:"stat,omitempty"`
	Before         string         `json:"before,omitempty"`
	After          string         `json:"after,omitempty"`
	Description    string         `json:"description,omitempty"`
	ChangeType     ChangeType     `json:"changeType"`
	ChangeCategory ChangeCategory `json:"changeCategory"`
}

func (c Change) IsNumeric() bool {
	return c.ChangeCategory == CategoryNumeric
}

type PatchEntry struct {
	PatchID       int        `json:"patchId"`
	PatchVersion  string     `json:"patchVersion"`
	PatchDate     string     `json:"patchDate"`
	OverallChange ChangeType `json:"overallChange"`
	Streak        int        `json:"streak"`
	DevComment    string     `json:"devComment,omitempty"`
	Changes       []Change   `json:"changes"`
}

// CurrentStreak has an empty Type when the latest entry was mixed or the
// history is empty.
type CurrentStreak struct {
	Type  ChangeType `json:"type"`
	Count int        `json:"count"`
}

type CharacterStats struct {
	TotalPatches  int           `json:"totalPatches"`
	BuffCount     int           `json:"buffCount"`
	NerfCount     int           `json:"nerfCount"`
	MixedCount    int           `json:"mixedCount"`
	CurrentStreak CurrentStreak `json:"currentStreak"`
	MaxBuffStreak int           `json:"maxBuffStreak"`
	MaxNerfStreak int           `json:"maxNerfStreak"`
}

type Character struct {
	Name         string         `json:"name"`
	NameEn       string         `json:"nameEn,omitempty"`
	Stats        CharacterStats `json:"stats"`
	PatchHistory []PatchEntry   `json:"patchHistory"`
	UpdatedAt    time.Time      `json:"updatedAt,omitempty"`
}

// Entry returns the history entry for patchID, or nil.
func (c *Character) Entry(patchID int) *PatchEntry {
	for i := range c.PatchHistory {
		if c.PatchHistory[i].PatchID == patchID {
			return &c.PatchHistory[i]
		}
	}
	return nil
}

func (c *Character) HasPatch(patchID int) bool {
	return c.Entry(patchID) != nil
}
