package report

import "time"

type Dimension string

const (
	DimensionBuilding Dimension = "building"
	DimensionFloor    Dimension = "floor"
	DimensionMember   Dimension = "member"
)

func (d Dimension) Valid() bool {
	return d == DimensionBuilding || d == DimensionFloor || d == DimensionMember
}

type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPartial Status = "partial"
	StatusOverdue Status = "overdue"
)

// DueRow is one outstanding bill in the committee listing.
type DueRow struct {
	UnitNumber  string     `json:"unit_no"`
	Floor       int        `json:"floor"`
	Wing        *string    `json:"wing"`
	MemberName  string     `json:"member_name"`
	BillCycle   time.Time  `json:"bill_cycle"`
	BillAmount  float64    `json:"bill_amount"`
	Paid        float64    `json:"paid"`
	Due         float64    `json:"due"`
	DueDate     time.Time  `json:"due_date"`
	LastPayment *time.Time `json:"last_payment"`
}

// DuesFilters constrain the dues listing. Now is injected by the service
// for the overdue cutoff.
type DuesFilters struct {
	Month    string // YYYY-MM, filters on bill cycle
	Building string
	Wing     string
	Floor    *int
	MinDue   *float64
	MaxDue   *float64
	Status   Status
	Search   string
	Page     int
	PerPage  int
	Now      time.Time
}

// ChartBucket is one group in the aggregated dues chart.
type ChartBucket struct {
	Label    string  `json:"label"`
	TotalDue float64 `json:"total_due"`
}
