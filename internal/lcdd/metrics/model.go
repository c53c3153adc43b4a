package metrics

import "time"

// LagSample is one frame's observed scheduling lag: how far the actual
// render fired past its target tick (spec section 5: lag compensation).
// This is purely operational diagnostics — never Screen/Widget state, per
// the Non-goals — recorded the way model.Tag records a resource-scoped
// fact rather than the resource itself.
type LagSample struct {
	ID         uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Frame      uint32    `gorm:"not null;column:frame" json:"frame"`
	LagMillis  int64     `gorm:"not null;column:lag_millis" json:"lag_millis"`
	RecordedAt time.Time `gorm:"not null;index:idx_lag_recorded_at;column:recorded_at" json:"recorded_at"`
}

// TableName pins the table name the way model.Tag does.
func (LagSample) TableName() string { return "lag_samples" }

// SwitchEvent records one scheduler switch_to transition (spec section
// 4.3): which screen the display moved from and to, and on what frame.
type SwitchEvent struct {
	ID         uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Frame      uint32    `gorm:"not null;column:frame" json:"frame"`
	FromScreen string    `gorm:"column:from_screen" json:"from_screen"`
	ToScreen   string    `gorm:"column:to_screen" json:"to_screen"`
	RecordedAt time.Time `gorm:"not null;index:idx_switch_recorded_at;column:recorded_at" json:"recorded_at"`
}

func (SwitchEvent) TableName() string { return "switch_events" }
