package report

import (
	"strings"
	"testing"
)

func TestBuildDuesWhere(t *testing.T) {
	t.Run("always excludes fully paid bills", func(t *testing.T) {
		where, args := buildDuesWhere(DuesFilters{})
		if !strings.Contains(where, "(mb.amount - COALESCE(p.total_paid, 0)) > 0") {
			t.Errorf("where clause does not exclude zero-due rows: %q", where)
		}
		if len(args) != 0 {
			t.Errorf("no filters set, got %d args", len(args))
		}
	})

	t.Run("filters bind positionally", func(t *testing.T) {
		floor := 3
		minDue := 500.0
		where, args := buildDuesWhere(DuesFilters{
			Month:    "2026-05",
			Building: "Tower A",
			Wing:     "B",
			Floor:    &floor,
			MinDue:   &minDue,
			Search:   "patel",
		})

		want := []string{
			"to_char(mb.bill_cycle, 'YYYY-MM') = $1",
			"b.name = $2",
			"u.wing = $3",
			"u.floor = $4",
			">= $5",
			"ILIKE $6",
		}
		for _, w := range want {
			if !strings.Contains(where, w) {
				t.Errorf("where clause missing %q: %q", w, where)
			}
		}
		if len(args) != 6 {
			t.Errorf("args: got %d, want 6", len(args))
		}
		if args[5] != "%patel%" {
			t.Errorf("search arg: got %v, want %%patel%%", args[5])
		}
	})

	t.Run("status predicates", func(t *testing.T) {
		tests := []struct {
			status Status
			want   string
		}{
			{StatusUnpaid, "COALESCE(p.total_paid, 0) = 0"},
			{StatusPartial, "p.total_paid > 0 AND p.total_paid < mb.amount"},
			{StatusOverdue, "mb.due_date < $1"},
		}
		for _, tt := range tests {
			where, _ := buildDuesWhere(DuesFilters{Status: tt.status})
			if !strings.Contains(where, tt.want) {
				t.Errorf("status %s: missing %q in %q", tt.status, tt.want, where)
			}
		}
	})
}

func TestBuildChartQuery(t *testing.T) {
	for _, dim := range []Dimension{DimensionBuilding, DimensionFloor, DimensionMember} {
		query := buildChartQuery(dim, false)

		if !strings.Contains(query, "(mb.amount - COALESCE(p.total_paid, 0)) > 0") {
			t.Errorf("%s: query does not exclude zero-due rows", dim)
		}
		if !strings.HasSuffix(query, "ORDER BY total_due DESC") {
			t.Errorf("%s: buckets not ordered by total due descending: %q", dim, query)
		}
	}

	if q := buildChartQuery(DimensionMember, true); !strings.HasSuffix(q, "LIMIT $2") {
		t.Errorf("limited query missing LIMIT clause: %q", q)
	}

	if q := buildChartQuery(DimensionFloor, false); !strings.Contains(q, "GROUP BY u.floor::text") {
		t.Errorf("floor query groups by wrong expression: %q", q)
	}
}
