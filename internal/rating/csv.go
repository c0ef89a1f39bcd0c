package rating

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ExportCSV streams all ratings matching the filters as CSV. Pagination is
// ignored on export; the full filtered set is written.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, f ListFilters) error {
	f.Page = 0
	f.Limit = 0

	rows, _, err := s.repo.ListRatings(ctx, f)
	if err != nil {
		return fmt.Errorf("list ratings for export: %w", err)
	}

	cw := csv.NewWriter(w)

	header := []string{"ID", "Member ID", "Member Name", "Staff ID", "Staff Type", "Rating", "Feedback", "Created At"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range rows {
		feedback := ""
		if r.Feedback != nil {
			feedback = *r.Feedback
		}

		record := []string{
			r.ID.String(),
			r.MemberID.String(),
			r.MemberName,
			r.StaffID.String(),
			string(r.StaffType),
			strconv.Itoa(r.Rating.Rating),
			feedback,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
