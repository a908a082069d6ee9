package models

import (
	"fmt"
	"time"
)

// DateLayout is the dd/mm/yyyy layout used for birth dates.
const DateLayout = "02/01/2006"

// Address is the postal address captured at registration.
type Address struct {
	Street   string
	Number   string
	District string
	City     string
	State    string // two-letter region code
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s - %s - %s/%s", a.Street, a.Number, a.District, a.City, a.State)
}

// User is a registered account holder, identified by a normalized CPF.
// Users are immutable once registered.
type User struct {
	CPF       string
	Name      string
	BirthDate time.Time
	Address   Address
}

// Summary renders a one-line description used in user listings.
func (u User) Summary() string {
	return fmt.Sprintf("Name: %s, CPF: %s, Born: %s", u.Name, u.CPF, u.BirthDate.Format(DateLayout))
}
