package main

import (
	"log"
	"time"

	"scolaris/app/config"
	"scolaris/app/models"
	"scolaris/app/services"
)

func ptr[T any](v T) *T { return &v }

func date(year int, month time.Month, day int) models.CustomTime {
	return models.CustomTime{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func main() {
	log.Println("Seeding demo data...")

	config.InitDB()
	db := config.GetDB()
	if db == nil {
		log.Fatal("Failed to get database instance")
	}
	defer db.Close()

	year, err := services.CreateSchoolYear(db, services.CreateSchoolYearInput{
		Name:      "2025-2026",
		StartDate: date(2025, time.September, 1),
		EndDate:   date(2026, time.June, 30),
		IsActive:  true,
	})
	if err != nil {
		if services.IsCode(err, services.CodeSchoolYearAlreadyExists) {
			log.Fatal("Demo data already seeded, aborting")
		}
		log.Fatalf("Creating school year: %v", err)
	}
	log.Printf("School year %s created (%s)", year.Name, year.ID)

	classroom, err := services.CreateClassRoom(db, services.CreateClassRoomInput{
		Name:         "Primary 1",
		SchoolYearID: year.ID,
		Level:        ptr("P1"),
		MonthlyFee:   ptr(50000.0),
		Capacity:     40,
		Groups: []services.ClassGroupInput{
			{Name: "P1 Red"},
			{Name: "P1 Blue", Capacity: 25},
		},
	})
	if err != nil {
		log.Fatalf("Creating classroom: %v", err)
	}
	log.Printf("Classroom %s created with %d groups", classroom.Name, len(classroom.Groups))

	group := classroom.Groups[0]

	students := []services.CreateStudentInput{
		{
			FirstName:     "Amina",
			LastName:      "Nakato",
			Gender:        models.GenderFemale,
			GuardianName:  ptr("Sarah Nakato"),
			GuardianPhone: ptr("+256700000001"),
			ClassroomID:   &classroom.ID,
			ClassGroupID:  &group.ID,
		},
		{
			FirstName:        "Ibrahim",
			LastName:         "Ssekandi",
			Gender:           models.GenderMale,
			ReductionPercent: 10,
			ClassroomID:      &classroom.ID,
		},
		{
			FirstName: "Joseph",
			LastName:  "Okello",
			Gender:    models.GenderMale,
		},
	}

	for _, input := range students {
		student, err := services.CreateStudent(db, input)
		if err != nil {
			log.Fatalf("Creating student %s %s: %v", input.FirstName, input.LastName, err)
		}
		log.Printf("Student %s %s created, matricule %s", student.FirstName, student.LastName, student.Matricule)

		payment, err := services.CreatePayment(db, services.CreatePaymentInput{
			StudentID:      student.ID,
			Amount:         30000,
			ExpectedAmount: ptr(50000.0),
			Type:           string(models.PaymentTuition),
			Method:         string(models.MethodCash),
			Notes:          ptr("First term installment"),
		}, "")
		if err != nil {
			log.Fatalf("Recording payment for %s: %v", student.Matricule, err)
		}
		log.Printf("Payment %s recorded: %s, balance %.2f", payment.Reference, payment.Status, payment.BalanceRemaining)
	}

	log.Println("Seeding completed successfully")
}
