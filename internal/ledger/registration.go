package ledger

import (
	"strings"
	"time"
	"unicode"

	"github.com/sheikh-saqib/banking-ledger/internal/models"
)

// CPFLength is the number of digits of a normalized CPF.
const CPFLength = 11

// UserInput is the raw registration form.
type UserInput struct {
	CPF       string
	Name      string
	BirthDate string // dd/mm/yyyy
	Address   models.Address
}

// NormalizeCPF drops every non-digit, so "123.456.789-00" becomes "12345678900".
func NormalizeCPF(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}

// ParseBirthDate parses a dd/mm/yyyy date, rejecting impossible calendar dates.
func ParseBirthDate(s string) (time.Time, error) {
	return time.Parse(models.DateLayout, strings.TrimSpace(s))
}

// validateCPF returns the normalized CPF or an InvalidFieldError.
func validateCPF(raw string) (string, error) {
	cpf := NormalizeCPF(raw)
	if len(cpf) != CPFLength {
		return "", invalidField("cpf", "must contain 11 digits")
	}
	return cpf, nil
}

// buildUser validates everything except uniqueness.
func buildUser(cpf string, in UserInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidField("name", "must not be empty")
	}

	birth, err := ParseBirthDate(in.BirthDate)
	if err != nil {
		return nil, invalidField("birth date", "expected a valid dd/mm/yyyy date")
	}

	addr := models.Address{
		Street:   strings.TrimSpace(in.Address.Street),
		Number:   strings.TrimSpace(in.Address.Number),
		District: strings.TrimSpace(in.Address.District),
		City:     strings.TrimSpace(in.Address.City),
		State:    strings.ToUpper(strings.TrimSpace(in.Address.State)),
	}
	for _, f := range []struct{ name, value string }{
		{"street", addr.Street},
		{"number", addr.Number},
		{"district", addr.District},
		{"city", addr.City},
		{"state", addr.State},
	} {
		if f.value == "" {
			return nil, invalidField(f.name, "address fields are all required")
		}
	}
	if len([]rune(addr.State)) != 2 || !isLetters(addr.State) {
		return nil, invalidField("state", "must be a 2-letter code")
	}

	return &models.User{
		CPF:       cpf,
		Name:      name,
		BirthDate: birth,
		Address:   addr,
	}, nil
}

func isLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
