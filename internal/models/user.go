package models

import (
	"time"
)

type User struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	Password      string    `gorm:"not null" json:"-"`
	Name          string    `gorm:"not null" json:"name"`
	Role          Role      `gorm:"type:varchar(20);not null" json:"role"`
	Contact       string    `json:"contact"`
	BankName      string    `json:"bank_name,omitempty"`
	BankAccount   string    `json:"bank_account,omitempty"`
	AccountHolder string    `json:"account_holder,omitempty"`
	TokenVersion  int       `gorm:"default:1" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateUserInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" form:"name" validate:"required,max=120"`
	Role     string `json:"role" form:"role" validate:"required,oneof=producer recycler"`
	Contact  string `json:"contact" form:"contact" validate:"max=60"`
}

type BankDetailsInput struct {
	BankName      string `json:"bank_name" validate:"required,max=80"`
	BankAccount   string `json:"bank_account" validate:"required,max=40"`
	AccountHolder string `json:"account_holder" validate:"required,max=120"`
}

// BankDetails is the payout target shown to a recycler before paying.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	BankAccount   string `json:"bank_account"`
	AccountHolder string `json:"account_holder"`
}

func (u *User) BankDetails() BankDetails {
	return BankDetails{
		BankName:      u.BankName,
		BankAccount:   u.BankAccount,
		AccountHolder: u.AccountHolder,
	}
}
