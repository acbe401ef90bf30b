package services

import (
	"regexp"
	"testing"
	"time"

	"scolaris/app/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestComputePaymentAmounts(t *testing.T) {
	tests := []struct {
		name     string
		input    PaymentAmountsInput
		want     *PaymentAmounts
		wantCode ErrorCode
	}{
		{
			name:  "partial payment derives balance",
			input: PaymentAmountsInput{Amount: 50000, ExpectedAmount: fptr(75000)},
			want: &PaymentAmounts{
				Amount: 50000, ExpectedAmount: 75000, BalanceRemaining: 25000,
				Type: models.PaymentTuition, Method: models.MethodCash, Status: models.PaymentPartial,
			},
		},
		{
			name:  "exact payment is paid",
			input: PaymentAmountsInput{Amount: 40000, ExpectedAmount: fptr(40000)},
			want: &PaymentAmounts{
				Amount: 40000, ExpectedAmount: 40000,
				Type: models.PaymentTuition, Method: models.MethodCash, Status: models.PaymentPaid,
			},
		},
		{
			name:  "expected defaults to amount",
			input: PaymentAmountsInput{Amount: 10000},
			want: &PaymentAmounts{
				Amount: 10000, ExpectedAmount: 10000,
				Type: models.PaymentTuition, Method: models.MethodCash, Status: models.PaymentPaid,
			},
		},
		{
			name:  "discount reduces the net expected",
			input: PaymentAmountsInput{Amount: 50000, ExpectedAmount: fptr(60000), AppliedDiscount: fptr(10000)},
			want: &PaymentAmounts{
				Amount: 50000, ExpectedAmount: 60000, AppliedDiscount: 10000,
				Type: models.PaymentTuition, Method: models.MethodCash, Status: models.PaymentPaid,
			},
		},
		{
			name:  "explicit balance wins over the derived one",
			input: PaymentAmountsInput{Amount: 20000, ExpectedAmount: fptr(50000), BalanceRemaining: fptr(5000)},
			want: &PaymentAmounts{
				Amount: 20000, ExpectedAmount: 50000, BalanceRemaining: 5000,
				Type: models.PaymentTuition, Method: models.MethodCash, Status: models.PaymentPartial,
			},
		},
		{
			name:  "overpayment clamps the balance to zero",
			input: PaymentAmountsInput{Amount: 60000, ExpectedAmount: fptr(50000)},
			want: &PaymentAmounts{
				Amount: 60000, ExpectedAmount: 50000,
				Type: models.PaymentTuition, Method: models.MethodCash, Status: models.PaymentPaid,
			},
		},
		{
			name:  "explicit type and method are kept",
			input: PaymentAmountsInput{Amount: 5000, Type: "transport", Method: "mobile_money"},
			want: &PaymentAmounts{
				Amount: 5000, ExpectedAmount: 5000,
				Type: models.PaymentTransport, Method: models.MethodMobileMoney, Status: models.PaymentPaid,
			},
		},
		{
			name:     "zero amount rejected",
			input:    PaymentAmountsInput{Amount: 0},
			wantCode: CodeInvalidAmount,
		},
		{
			name:     "negative amount rejected",
			input:    PaymentAmountsInput{Amount: -100},
			wantCode: CodeInvalidAmount,
		},
		{
			name:     "negative discount rejected",
			input:    PaymentAmountsInput{Amount: 100, AppliedDiscount: fptr(-5)},
			wantCode: CodeInvalidDiscount,
		},
		{
			name:     "discount above expected rejected",
			input:    PaymentAmountsInput{Amount: 100, ExpectedAmount: fptr(200), AppliedDiscount: fptr(300)},
			wantCode: CodeDiscountTooHigh,
		},
		{
			name:     "unknown type rejected",
			input:    PaymentAmountsInput{Amount: 100, Type: "bribe"},
			wantCode: CodeInvalidType,
		},
		{
			name:     "unknown method rejected",
			input:    PaymentAmountsInput{Amount: 100, Method: "barter"},
			wantCode: CodeInvalidMethod,
		},
		{
			name:     "unknown status rejected",
			input:    PaymentAmountsInput{Amount: 100, Status: "archived"},
			wantCode: CodeInvalidStatus,
		},
		{
			name:     "paid status with remaining balance rejected",
			input:    PaymentAmountsInput{Amount: 100, ExpectedAmount: fptr(200), Status: "paid"},
			wantCode: CodeStatusConflict,
		},
		{
			name:     "explicit paid with overriding balance rejected",
			input:    PaymentAmountsInput{Amount: 40000, ExpectedAmount: fptr(40000), BalanceRemaining: fptr(100), Status: "paid"},
			wantCode: CodeStatusConflict,
		},
		{
			name:     "pending with a collected amount rejected",
			input:    PaymentAmountsInput{Amount: 100, Status: "pending"},
			wantCode: CodePendingAmountConflict,
		},
		{
			name:  "cancelled status accepted regardless of balance",
			input: PaymentAmountsInput{Amount: 100, ExpectedAmount: fptr(200), Status: "cancelled"},
			want: &PaymentAmounts{
				Amount: 100, ExpectedAmount: 200, BalanceRemaining: 100,
				Type: models.PaymentTuition, Method: models.MethodCash, Status: models.PaymentCancelled,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputePaymentAmounts(tt.input)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputePaymentAmountsRoundsToCents(t *testing.T) {
	got, err := ComputePaymentAmounts(PaymentAmountsInput{
		Amount:         33.336,
		ExpectedAmount: fptr(100.104),
	})
	require.NoError(t, err)
	assert.InDelta(t, 33.34, got.Amount, 0.001)
	assert.InDelta(t, 100.10, got.ExpectedAmount, 0.001)
	assert.InDelta(t, 66.76, got.BalanceRemaining, 0.001)
	assert.Equal(t, models.PaymentPartial, got.Status)
}

func TestGeneratePaymentReferenceFormat(t *testing.T) {
	ref := generatePaymentReference("a1b2c3d4-0000-1111-2222-333344445555")

	pattern := regexp.MustCompile(`^PAY-a1b2c3d4-[0-9A-Z]+-[0-9A-Z]{4}$`)
	assert.Regexp(t, pattern, ref)

	other := generatePaymentReference("a1b2c3d4-0000-1111-2222-333344445555")
	assert.NotEqual(t, ref, other, "two references for the same student should differ")
}

func paymentRow(id string, status models.PaymentStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "student_id", "school_year_id", "amount", "expected_amount",
		"applied_discount", "balance_remaining", "type", "method", "reference",
		"status", "payment_date", "notes", "recorded_by_id", "created_at", "updated_at",
	}).AddRow(id, "student-1", "year-1", 10000.0, 10000.0,
		0.0, 0.0, "tuition", "cash", "PAY-TEST",
		string(status), now, nil, nil, now, now)
}

func TestDeletePaymentRestrictedForSettledPayments(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM payments WHERE id = (.+) FOR UPDATE").
		WithArgs("pay-1").
		WillReturnRows(paymentRow("pay-1", models.PaymentPaid))
	mock.ExpectRollback()

	err = DeletePayment(db, "pay-1")
	require.Error(t, err)
	assert.Equal(t, CodePaymentDeleteRestricted, CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePaymentAllowsPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM payments WHERE id = (.+) FOR UPDATE").
		WithArgs("pay-1").
		WillReturnRows(paymentRow("pay-1", models.PaymentPending))
	mock.ExpectExec("DELETE FROM payments WHERE id = ").
		WithArgs("pay-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = DeletePayment(db, "pay-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
