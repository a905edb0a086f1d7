// Package models holds the SmartTask records, their derived predicates and
// the wire-safe views handed to front ends.
package models

import (
	"strings"
	"time"
)

// Account is a registered user. Email is the identity and is compared
// case-insensitively.
type Account struct {
	Email        string
	FirstName    string
	LastName     string
	ExternalID   string
	Major        string
	PasswordHash string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	Active       bool
}

func (a Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

func (a Account) Initials() string {
	var b strings.Builder
	for _, s := range []string{a.FirstName, a.LastName} {
		if r := []rune(strings.TrimSpace(s)); len(r) > 0 {
			b.WriteRune(r[0])
		}
	}
	return strings.ToUpper(b.String())
}

// Clone returns a copy that shares no pointers with a.
func (a Account) Clone() Account {
	if a.LastLoginAt != nil {
		t := *a.LastLoginAt
		a.LastLoginAt = &t
	}
	return a
}

// NormalizeEmail is the key used for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SameEmail reports whether two emails identify the same account.
func SameEmail(a, b string) bool {
	return NormalizeEmail(a) == NormalizeEmail(b)
}

// AccountView is the transport representation of an Account. The password
// hash is never part of it.
type AccountView struct {
	Email       string  `json:"email"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	FullName    string  `json:"fullName"`
	Initials    string  `json:"initials"`
	StudentID   string  `json:"studentId"`
	Major       string  `json:"major"`
	CreatedAt   string  `json:"createdAt"`
	LastLoginAt *string `json:"lastLoginAt"`
	IsActive    bool    `json:"isActive"`
}

func (a Account) View() AccountView {
	return AccountView{
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		FullName:    a.FullName(),
		Initials:    a.Initials(),
		StudentID:   a.ExternalID,
		Major:       a.Major,
		CreatedAt:   FormatTime(a.CreatedAt),
		LastLoginAt: formatOptional(a.LastLoginAt),
		IsActive:    a.Active,
	}
}
