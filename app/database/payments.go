package database

import (
	"scolaris/app/models"
)

const paymentColumns = `id, student_id, school_year_id, amount, expected_amount, applied_discount,
	balance_remaining, type, method, reference, status, payment_date, notes,
	recorded_by_id, created_at, updated_at`

// PaymentFilters represents filtering options for payments
type PaymentFilters struct {
	StudentID    string
	SchoolYearID string
	Status       string
	Type         string
}

func scanPayment(row interface{ Scan(...interface{}) error }) (*models.Payment, error) {
	p := &models.Payment{}
	var pType, method, status string
	err := row.Scan(
		&p.ID, &p.StudentID, &p.SchoolYearID, &p.Amount, &p.ExpectedAmount,
		&p.AppliedDiscount, &p.BalanceRemaining, &pType, &method, &p.Reference,
		&status, &p.PaymentDate, &p.Notes, &p.RecordedByID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Type = models.PaymentType(pType)
	p.Method = models.PaymentMethod(method)
	p.Status = models.PaymentStatus(status)
	return p, nil
}

func GetPaymentByID(q DBTX, id string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(q.QueryRow(query, id))
}

func GetPaymentByIDForUpdate(q DBTX, id string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`
	return scanPayment(q.QueryRow(query, id))
}

func ListPayments(q DBTX, filters PaymentFilters) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
			  WHERE ($1 = '' OR student_id::text = $1)
			  AND ($2 = '' OR school_year_id::text = $2)
			  AND ($3 = '' OR status = $3)
			  AND ($4 = '' OR type = $4)
			  ORDER BY payment_date DESC, id DESC`

	rows, err := q.Query(query, filters.StudentID, filters.SchoolYearID, filters.Status, filters.Type)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func InsertPayment(q DBTX, p *models.Payment) error {
	query := `INSERT INTO payments (student_id, school_year_id, amount, expected_amount,
				  applied_discount, balance_remaining, type, method, reference, status,
				  payment_date, notes, recorded_by_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING id, created_at, updated_at`
	return q.QueryRow(query, p.StudentID, p.SchoolYearID, p.Amount, p.ExpectedAmount,
		p.AppliedDiscount, p.BalanceRemaining, string(p.Type), string(p.Method),
		p.Reference, string(p.Status), p.PaymentDate, p.Notes, p.RecordedByID).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func UpdatePayment(q DBTX, p *models.Payment) error {
	query := `UPDATE payments
			  SET student_id = $1, school_year_id = $2, amount = $3, expected_amount = $4,
				  applied_discount = $5, balance_remaining = $6, type = $7, method = $8,
				  reference = $9, status = $10, payment_date = $11, notes = $12,
				  updated_at = NOW()
			  WHERE id = $13
			  RETURNING updated_at`
	return q.QueryRow(query, p.StudentID, p.SchoolYearID, p.Amount, p.ExpectedAmount,
		p.AppliedDiscount, p.BalanceRemaining, string(p.Type), string(p.Method),
		p.Reference, string(p.Status), p.PaymentDate, p.Notes, p.ID).
		Scan(&p.UpdatedAt)
}

func DeletePayment(q DBTX, id string) error {
	_, err := q.Exec(`DELETE FROM payments WHERE id = $1`, id)
	return err
}
