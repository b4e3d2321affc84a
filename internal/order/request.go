package order

import (
	"strings"

	"ms-booths/internal/apperr"
	"ms-booths/internal/models"
)

// Customer is the identity/contact block of an order after trimming.
type Customer struct {
	BoothID     string
	StudentNo   string
	StudentName string
	Phone       string
}

// ValidateCustomer trims the identity fields and checks them. The student
// number must be exactly four ASCII digits.
func ValidateCustomer(boothID, studentNo, studentName, phone string) (Customer, error) {
	c := Customer{
		BoothID:     strings.TrimSpace(boothID),
		StudentNo:   strings.TrimSpace(studentNo),
		StudentName: strings.TrimSpace(studentName),
		Phone:       strings.TrimSpace(phone),
	}
	if c.BoothID == "" || c.StudentNo == "" || c.StudentName == "" || c.Phone == "" {
		return Customer{}, apperr.Invalidf("boothId, studentNo, studentName and phone are required")
	}
	if !isStudentNo(c.StudentNo) {
		return Customer{}, apperr.Invalidf("studentNo must be exactly 4 digits")
	}
	return c, nil
}

// ValidateRequest performs the shape checks on an inbound order before any
// catalog lookup happens.
func ValidateRequest(req models.OrderRequest) (Customer, error) {
	c, err := ValidateCustomer(req.BoothID, req.StudentNo, req.StudentName, req.Phone)
	if err != nil {
		return Customer{}, err
	}
	if len(req.Items) == 0 {
		return Customer{}, apperr.Invalidf("items are required")
	}
	return c, nil
}

func isStudentNo(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
