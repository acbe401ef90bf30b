package models

// Gender defines the possible gender values for a student.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// StudentStatus defines the lifecycle status of a student.
type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentGraduated StudentStatus = "graduated"
	StudentInactive  StudentStatus = "inactive"
)

func (s StudentStatus) Valid() bool {
	switch s {
	case StudentActive, StudentGraduated, StudentInactive:
		return true
	}
	return false
}

// EnrollmentStatus defines the status of a yearly enrollment.
type EnrollmentStatus string

const (
	EnrollmentActive      EnrollmentStatus = "active"
	EnrollmentTransferred EnrollmentStatus = "transferred"
	EnrollmentSuspended   EnrollmentStatus = "suspended"
	EnrollmentInactive    EnrollmentStatus = "inactive"
)

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentActive, EnrollmentTransferred, EnrollmentSuspended, EnrollmentInactive:
		return true
	}
	return false
}

// PaymentType defines what a payment covers.
type PaymentType string

const (
	PaymentRegistration PaymentType = "registration"
	PaymentTuition      PaymentType = "tuition"
	PaymentTransport    PaymentType = "transport"
	PaymentMisc         PaymentType = "misc"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentRegistration, PaymentTuition, PaymentTransport, PaymentMisc:
		return true
	}
	return false
}

// PaymentMethod defines how a payment was made.
type PaymentMethod string

const (
	MethodCash        PaymentMethod = "cash"
	MethodCard        PaymentMethod = "card"
	MethodTransfer    PaymentMethod = "transfer"
	MethodMobileMoney PaymentMethod = "mobile_money"
	MethodCheck       PaymentMethod = "check"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodMobileMoney, MethodCheck:
		return true
	}
	return false
}

// PaymentStatus defines the settlement status of a payment.
type PaymentStatus string

const (
	PaymentPaid      PaymentStatus = "paid"
	PaymentPartial   PaymentStatus = "partial"
	PaymentPending   PaymentStatus = "pending"
	PaymentCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentPartial, PaymentPending, PaymentCancelled:
		return true
	}
	return false
}
