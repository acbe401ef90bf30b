package services

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"scolaris/app/database"
	"scolaris/app/models"
)

// PaymentAmountsInput feeds the pure amount computation. Optional fields
// are pointers so "absent" and "zero" stay distinct.
type PaymentAmountsInput struct {
	Amount           float64
	ExpectedAmount   *float64
	AppliedDiscount  *float64
	BalanceRemaining *float64
	Type             string
	Method           string
	Status           string
}

// PaymentAmounts is the result of the ledger computation, ready to
// persist.
type PaymentAmounts struct {
	Amount           float64
	ExpectedAmount   float64
	AppliedDiscount  float64
	BalanceRemaining float64
	Type             models.PaymentType
	Method           models.PaymentMethod
	Status           models.PaymentStatus
}

// CreatePaymentInput carries a payment creation payload.
type CreatePaymentInput struct {
	StudentID        string             `json:"student_id"`
	SchoolYearID     string             `json:"school_year_id"`
	Amount           float64            `json:"amount"`
	ExpectedAmount   *float64           `json:"expected_amount"`
	AppliedDiscount  *float64           `json:"applied_discount"`
	BalanceRemaining *float64           `json:"balance_remaining"`
	Type             string             `json:"type"`
	Method           string             `json:"method"`
	Status           string             `json:"status"`
	Reference        string             `json:"reference"`
	PaymentDate      *models.CustomTime `json:"payment_date"`
	Notes            *string            `json:"notes"`
}

// PaymentPatch is a partial update; amounts are recomputed from the
// merged old and new fields.
type PaymentPatch struct {
	StudentID        *string            `json:"student_id"`
	SchoolYearID     *string            `json:"school_year_id"`
	Amount           *float64           `json:"amount"`
	ExpectedAmount   *float64           `json:"expected_amount"`
	AppliedDiscount  *float64           `json:"applied_discount"`
	BalanceRemaining *float64           `json:"balance_remaining"`
	Type             *string            `json:"type"`
	Method           *string            `json:"method"`
	Status           *string            `json:"status"`
	Reference        *string            `json:"reference"`
	PaymentDate      *models.CustomTime `json:"payment_date"`
	Notes            *string            `json:"notes"`
}

// round2 rounds to two decimals, half away from zero. All monetary
// comparisons happen post-rounding.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputePaymentAmounts derives the persisted monetary fields of a
// payment from caller input. Pure function, no I/O.
func ComputePaymentAmounts(input PaymentAmountsInput) (*PaymentAmounts, error) {
	amount := round2(input.Amount)
	if amount <= 0 {
		return nil, newError(CodeInvalidAmount, "paid amount must be greater than zero")
	}

	expectedAmount := amount
	if input.ExpectedAmount != nil {
		expectedAmount = round2(*input.ExpectedAmount)
	}

	appliedDiscount := 0.0
	if input.AppliedDiscount != nil {
		appliedDiscount = round2(*input.AppliedDiscount)
	}
	if appliedDiscount < 0 {
		return nil, newError(CodeInvalidDiscount, "discount cannot be negative")
	}
	if appliedDiscount > expectedAmount {
		return nil, newError(CodeDiscountTooHigh, "discount cannot exceed the expected amount")
	}

	netExpected := math.Max(expectedAmount-appliedDiscount, 0)

	// An explicit balance wins over the derived one; the source system
	// allowed the override without cross-checking it.
	balanceRemaining := math.Max(netExpected-amount, 0)
	if input.BalanceRemaining != nil {
		balanceRemaining = round2(*input.BalanceRemaining)
	}

	paymentType := models.PaymentTuition
	if input.Type != "" {
		paymentType = models.PaymentType(input.Type)
	}
	if !paymentType.Valid() {
		return nil, newError(CodeInvalidType, "invalid payment type")
	}

	method := models.MethodCash
	if input.Method != "" {
		method = models.PaymentMethod(input.Method)
	}
	if !method.Valid() {
		return nil, newError(CodeInvalidMethod, "invalid payment method")
	}

	var status models.PaymentStatus
	if input.Status != "" {
		status = models.PaymentStatus(input.Status)
		if !status.Valid() {
			return nil, newError(CodeInvalidStatus, "invalid payment status")
		}
	} else if balanceRemaining <= 0 {
		status = models.PaymentPaid
	} else {
		status = models.PaymentPartial
	}

	if status == models.PaymentPaid && balanceRemaining > 0 {
		return nil, newError(CodeStatusConflict, "a paid payment cannot carry a remaining balance")
	}
	if status == models.PaymentPending && amount > 0 {
		return nil, newError(CodePendingAmountConflict, "a pending payment cannot carry a collected amount")
	}

	return &PaymentAmounts{
		Amount:           amount,
		ExpectedAmount:   expectedAmount,
		AppliedDiscount:  appliedDiscount,
		BalanceRemaining: balanceRemaining,
		Type:             paymentType,
		Method:           method,
		Status:           status,
	}, nil
}

// generatePaymentReference builds PAY-<student>-<base36 timestamp>-<4
// random base36 chars>. The student segment is the UUID's first group.
func generatePaymentReference(studentID string) string {
	shortID := studentID
	if i := strings.IndexByte(studentID, '-'); i > 0 {
		shortID = studentID[:i]
	}

	timestamp := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffix := make([]byte, 4)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			n = big.NewInt(int64(i))
		}
		suffix[i] = alphabet[n.Int64()]
	}

	return fmt.Sprintf("PAY-%s-%s-%s", shortID, timestamp, string(suffix))
}

// CreatePayment records a student payment. The school year falls back to
// the active one; a reference is generated when absent. recordedBy is
// the acting user for attribution, empty when unknown.
func CreatePayment(db *sql.DB, input CreatePaymentInput, recordedBy string) (*models.Payment, error) {
	if input.StudentID == "" {
		return nil, newError(CodeStudentRequired, "student id is required")
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	student, err := database.GetStudentByID(tx, input.StudentID)
	if err == sql.ErrNoRows {
		return nil, newError(CodeStudentNotFound, "student not found")
	}
	if err != nil {
		return nil, err
	}

	schoolYearID, err := resolveSchoolYearID(tx, input.SchoolYearID)
	if err != nil {
		return nil, err
	}
	if schoolYearID == "" {
		return nil, newError(CodeSchoolYearRequired, "no active school year is defined")
	}

	computed, err := ComputePaymentAmounts(PaymentAmountsInput{
		Amount:           input.Amount,
		ExpectedAmount:   input.ExpectedAmount,
		AppliedDiscount:  input.AppliedDiscount,
		BalanceRemaining: input.BalanceRemaining,
		Type:             input.Type,
		Method:           input.Method,
		Status:           input.Status,
	})
	if err != nil {
		return nil, err
	}

	reference := input.Reference
	if reference == "" {
		reference = generatePaymentReference(student.ID)
	}

	paymentDate := time.Now()
	if input.PaymentDate != nil && !input.PaymentDate.Time.IsZero() {
		paymentDate = input.PaymentDate.Time
	}

	var recordedByID *string
	if recordedBy != "" {
		recordedByID = &recordedBy
	}

	payment := &models.Payment{
		StudentID:        student.ID,
		SchoolYearID:     schoolYearID,
		Amount:           computed.Amount,
		ExpectedAmount:   computed.ExpectedAmount,
		AppliedDiscount:  computed.AppliedDiscount,
		BalanceRemaining: computed.BalanceRemaining,
		Type:             computed.Type,
		Method:           computed.Method,
		Reference:        reference,
		Status:           computed.Status,
		PaymentDate:      paymentDate,
		Notes:            input.Notes,
		RecordedByID:     recordedByID,
	}

	if err := database.InsertPayment(tx, payment); err != nil {
		if database.IsUniqueViolation(err, "uq_payments_reference") {
			return nil, newError(CodeDuplicateReference, "an identical payment reference already exists")
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdatePayment re-locks the payment, merges the patch over the stored
// fields and recomputes the amounts before persisting.
func UpdatePayment(db *sql.DB, id string, patch PaymentPatch) (*models.Payment, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	payment, err := database.GetPaymentByIDForUpdate(tx, id)
	if err == sql.ErrNoRows {
		return nil, newError(CodePaymentNotFound, "payment not found")
	}
	if err != nil {
		return nil, err
	}

	if patch.StudentID != nil && *patch.StudentID != payment.StudentID {
		if _, err := database.GetStudentByID(tx, *patch.StudentID); err != nil {
			if err == sql.ErrNoRows {
				return nil, newError(CodeStudentNotFound, "student not found")
			}
			return nil, err
		}
		payment.StudentID = *patch.StudentID
	}

	if patch.SchoolYearID != nil && *patch.SchoolYearID != payment.SchoolYearID {
		resolved, err := resolveSchoolYearID(tx, *patch.SchoolYearID)
		if err != nil {
			return nil, err
		}
		if resolved == "" {
			return nil, newError(CodeSchoolYearRequired, "no active school year is defined")
		}
		payment.SchoolYearID = resolved
	}

	amountInput := PaymentAmountsInput{
		Amount:           payment.Amount,
		ExpectedAmount:   &payment.ExpectedAmount,
		AppliedDiscount:  &payment.AppliedDiscount,
		BalanceRemaining: patch.BalanceRemaining,
		Type:             string(payment.Type),
		Method:           string(payment.Method),
		Status:           string(payment.Status),
	}
	if patch.Amount != nil {
		amountInput.Amount = *patch.Amount
	}
	if patch.ExpectedAmount != nil {
		amountInput.ExpectedAmount = patch.ExpectedAmount
	}
	if patch.AppliedDiscount != nil {
		amountInput.AppliedDiscount = patch.AppliedDiscount
	}
	if patch.Type != nil {
		amountInput.Type = *patch.Type
	}
	if patch.Method != nil {
		amountInput.Method = *patch.Method
	}
	if patch.Status != nil {
		amountInput.Status = *patch.Status
	}

	computed, err := ComputePaymentAmounts(amountInput)
	if err != nil {
		return nil, err
	}

	payment.Amount = computed.Amount
	payment.ExpectedAmount = computed.ExpectedAmount
	payment.AppliedDiscount = computed.AppliedDiscount
	payment.BalanceRemaining = computed.BalanceRemaining
	payment.Type = computed.Type
	payment.Method = computed.Method
	payment.Status = computed.Status

	if patch.Reference != nil {
		payment.Reference = *patch.Reference
	}
	if patch.PaymentDate != nil && !patch.PaymentDate.Time.IsZero() {
		payment.PaymentDate = patch.PaymentDate.Time
	}
	if patch.Notes != nil {
		payment.Notes = patch.Notes
	}

	if err := database.UpdatePayment(tx, payment); err != nil {
		if database.IsUniqueViolation(err, "uq_payments_reference") {
			return nil, newError(CodeDuplicateReference, "an identical payment reference already exists")
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return payment, nil
}

// DeletePayment removes a payment. Only pending or cancelled payments
// can be deleted.
func DeletePayment(db *sql.DB, id string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	payment, err := database.GetPaymentByIDForUpdate(tx, id)
	if err == sql.ErrNoRows {
		return newError(CodePaymentNotFound, "payment not found")
	}
	if err != nil {
		return err
	}

	if payment.Status != models.PaymentPending && payment.Status != models.PaymentCancelled {
		return newError(CodePaymentDeleteRestricted, "only pending or cancelled payments can be deleted")
	}

	if err := database.DeletePayment(tx, payment.ID); err != nil {
		return err
	}
	return tx.Commit()
}

func GetPaymentByID(db *sql.DB, id string) (*models.Payment, error) {
	payment, err := database.GetPaymentByID(db, id)
	if err == sql.ErrNoRows {
		return nil, newError(CodePaymentNotFound, "payment not found")
	}
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func ListPayments(db *sql.DB, filters database.PaymentFilters) ([]*models.Payment, error) {
	return database.ListPayments(db, filters)
}
