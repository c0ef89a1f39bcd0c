package report

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Bills are joined to a pre-aggregated payments-per-bill subquery; the due
// amount is the bill amount minus whatever has accumulated against it.
const duesFrom = `
	FROM member_bills mb
	JOIN members m ON m.id = mb.member_id
	JOIN units u ON u.id = m.unit_id
	LEFT JOIN buildings b ON b.id = u.building_id
	LEFT JOIN (
		SELECT bill_id, SUM(amount) AS total_paid, MAX(payment_date) AS last_payment
		FROM payments
		GROUP BY bill_id
	) p ON p.bill_id = mb.id
`

func buildDuesWhere(f DuesFilters) (string, []any) {
	where := ` WHERE (mb.amount - COALESCE(p.total_paid, 0)) > 0`
	args := []any{}

	if f.Month != "" {
		args = append(args, f.Month)
		where += fmt.Sprintf(" AND to_char(mb.bill_cycle, 'YYYY-MM') = $%d", len(args))
	}
	if f.Building != "" {
		args = append(args, f.Building)
		where += fmt.Sprintf(" AND b.name = $%d", len(args))
	}
	if f.Wing != "" {
		args = append(args, f.Wing)
		where += fmt.Sprintf(" AND u.wing = $%d", len(args))
	}
	if f.Floor != nil {
		args = append(args, *f.Floor)
		where += fmt.Sprintf(" AND u.floor = $%d", len(args))
	}
	if f.MinDue != nil {
		args = append(args, *f.MinDue)
		where += fmt.Sprintf(" AND (mb.amount - COALESCE(p.total_paid, 0)) >= $%d", len(args))
	}
	if f.MaxDue != nil {
		args = append(args, *f.MaxDue)
		where += fmt.Sprintf(" AND (mb.amount - COALESCE(p.total_paid, 0)) <= $%d", len(args))
	}

	switch f.Status {
	case StatusUnpaid:
		where += " AND COALESCE(p.total_paid, 0) = 0"
	case StatusPartial:
		where += " AND p.total_paid > 0 AND p.total_paid < mb.amount"
	case StatusOverdue:
		args = append(args, f.Now)
		where += fmt.Sprintf(" AND mb.due_date < $%d", len(args))
	}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(" AND (m.name ILIKE $%d OR u.unit_no ILIKE $%d)", len(args), len(args))
	}

	return where, args
}

func (r *PgRepository) ListDues(ctx context.Context, f DuesFilters) ([]DueRow, int, error) {
	where, args := buildDuesWhere(f)

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*)"+duesFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT u.unit_no, u.floor, u.wing, m.name,
		       mb.bill_cycle, mb.amount,
		       COALESCE(p.total_paid, 0),
		       mb.amount - COALESCE(p.total_paid, 0) AS due,
		       mb.due_date, p.last_payment` +
		duesFrom + where + `
		ORDER BY mb.due_date ASC`

	if f.PerPage > 0 {
		args = append(args, f.PerPage)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		offset := 0
		if f.Page > 1 {
			offset = (f.Page - 1) * f.PerPage
		}
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []DueRow
	for rows.Next() {
		var row DueRow
		if err := rows.Scan(&row.UnitNumber, &row.Floor, &row.Wing, &row.MemberName,
			&row.BillCycle, &row.BillAmount, &row.Paid, &row.Due,
			&row.DueDate, &row.LastPayment); err != nil {
			return nil, 0, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func dimensionExpr(dim Dimension) string {
	switch dim {
	case DimensionFloor:
		return "u.floor::text"
	case DimensionMember:
		return "m.name"
	default:
		return "COALESCE(b.name, 'Unassigned')"
	}
}

func buildChartQuery(dim Dimension, withLimit bool) string {
	expr := dimensionExpr(dim)

	query := `
		SELECT ` + expr + ` AS label,
		       SUM(mb.amount - COALESCE(p.total_paid, 0)) AS total_due` +
		duesFrom + `
		WHERE (mb.amount - COALESCE(p.total_paid, 0)) > 0
		  AND to_char(mb.bill_cycle, 'YYYY-MM') = $1
		GROUP BY ` + expr + `
		ORDER BY total_due DESC`

	if withLimit {
		query += " LIMIT $2"
	}
	return query
}

func (r *PgRepository) SumDueByDimension(ctx context.Context, month string, dim Dimension, limit int) ([]ChartBucket, error) {
	query := buildChartQuery(dim, limit > 0)

	args := []any{month}
	if limit > 0 {
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ChartBucket
	for rows.Next() {
		var b ChartBucket
		if err := rows.Scan(&b.Label, &b.TotalDue); err != nil {
			return nil, err
		}
		result = append(result, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
