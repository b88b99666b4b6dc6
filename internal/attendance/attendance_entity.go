package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
	StatusLate    = "LATE"
	StatusHoliday = "HOLIDAY"
)

const (
	BreakTypeFirst  = "break1"
	BreakTypeSecond = "break2"
	BreakTypeLunch  = "lunch"
)

// TypeCap returns the maximum allowed minutes for a break type. Overruns are
// truncated to the cap, never rejected.
func TypeCap(breakType string) int {
	if breakType == BreakTypeLunch {
		return 30
	}
	return 15
}

func ValidBreakType(breakType string) bool {
	switch breakType {
	case BreakTypeFirst, BreakTypeSecond, BreakTypeLunch:
		return true
	default:
		return false
	}
}

// AttendanceDay is the canonical per-employee, per-calendar-date record.
// One row per (company_id, employee_id, work_date); the unique index doubles
// as the guard against concurrent double punch-ins.
type AttendanceDay struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID       `gorm:"column:company_id;type:uuid;not null;index;uniqueIndex:uq_attendance_day"`
	EmployeeID    uuid.UUID       `gorm:"column:employee_id;type:uuid;not null;index;uniqueIndex:uq_attendance_day"`
	WorkDate      time.Time       `gorm:"column:work_date;type:date;not null;uniqueIndex:uq_attendance_day"`
	PunchIn       time.Time       `gorm:"column:punch_in;type:timestamptz;not null"`
	PunchOut      *time.Time      `gorm:"column:punch_out;type:timestamptz"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true"`
	Status        string          `gorm:"column:status;type:varchar(20);not null;default:PRESENT"`
	BreakMinutes  int             `gorm:"column:break_minutes;not null;default:0"`
	TotalHours    float64         `gorm:"column:total_hours;type:numeric(6,2);not null;default:0"`
	OvertimeHours float64         `gorm:"column:overtime_hours;type:numeric(6,2);not null;default:0"`
	Breaks        []BreakInterval `gorm:"foreignKey:AttendanceDayID"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (AttendanceDay) TableName() string {
	return "attendance_days"
}

// BreakInterval is one start/end (or start-only while open) break instance.
// At most one interval per type per day, at most one open across all types.
type BreakInterval struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	AttendanceDayID uuid.UUID  `gorm:"column:attendance_day_id;type:uuid;not null;index"`
	Type            string     `gorm:"column:break_type;type:varchar(10);not null"`
	StartTime       time.Time  `gorm:"column:start_time;type:timestamptz;not null"`
	EndTime         *time.Time `gorm:"column:end_time;type:timestamptz"`
	DurationMinutes *int       `gorm:"column:duration_minutes"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (BreakInterval) TableName() string {
	return "attendance_breaks"
}

func (b *BreakInterval) Open() bool {
	return b.EndTime == nil
}
