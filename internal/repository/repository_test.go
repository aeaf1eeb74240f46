package repository

import (
	"time"

	"github.com/Dan9191/deferred-payment/internal/models"
)

var refDate = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func sampleOrder() *models.Order {
	return &models.Order{
		ID:            "6f1c1d9e-6a0c-4b8e-9a36-3f0f1e4b2a11",
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		Items: []models.OrderItem{
			{ProductID: 4, Name: "AirPods Pro", Quantity: 2, UnitPrice: 5499, Subtotal: 10998},
		},
		Total:     10998,
		CreatedAt: refDate,
	}
}

func samplePlan(expiresAt time.Time) *models.StoredPlan {
	return &models.StoredPlan{
		ID:              "0b9f2f55-3d8c-4f0e-bb3e-5c2a7d1e9f40",
		OrderID:         sampleOrder().ID,
		CardFingerprint: "fp",
		MaskedCard:      "**** **** **** 0018",
		CreatedAt:       refDate,
		ExpiresAt:       expiresAt,
		Plan: models.PaymentPlanResult{
			BankName:       "Banco BBVA",
			OriginalAmount: 10998,
			InterestRate:   0.08,
			TotalAmount:    11877.84,
			Months:         1,
			MonthlyPayment: 11877.84,
			Schedule: []models.PaymentScheduleEntry{
				{Number: 1, DueDate: refDate.AddDate(0, 1, 0), Amount: 11877.84, Accumulated: 11877.84},
			},
			CardLastFour: "0018",
		},
	}
}
