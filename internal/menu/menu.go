// Package menu is the text interface of the bank: a main menu for users and
// accounts and an operations menu for a selected account. It only parses
// input and prints results; every rule lives in package ledger.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/banking-ledger/internal/ledger"
	"github.com/sheikh-saqib/banking-ledger/internal/models"
	"github.com/sheikh-saqib/banking-ledger/internal/money"
)

const width = 50

type Menu struct {
	ledger *ledger.Ledger
	in     *bufio.Scanner
	out    io.Writer
}

func New(l *ledger.Ledger, in io.Reader, out io.Writer) *Menu {
	return &Menu{ledger: l, in: bufio.NewScanner(in), out: out}
}

// Run shows the main menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.println()
		m.println(banner("BANKING SYSTEM"))
		m.println("1 - New user")
		m.println("2 - New account")
		m.println("3 - Access account (operations)")
		m.println("4 - List accounts")
		m.println("5 - List users")
		m.println("6 - Exit")

		opt, err := m.prompt("Option: ")
		if err != nil {
			return ignoreEOF(err)
		}

		switch opt {
		case "1":
			err = m.registerUser()
		case "2":
			err = m.createAccount()
		case "3":
			err = m.accessAccount(ctx)
		case "4":
			m.listAccounts()
		case "5":
			m.listUsers()
		case "6":
			m.println()
			m.println("Thank you for using our services!")
			return nil
		default:
			m.println("Invalid option. Try again.")
		}
		if err != nil {
			return ignoreEOF(err)
		}
	}
}

func (m *Menu) registerUser() error {
	m.println()
	m.println("--- New user ---")

	var in ledger.UserInput
	var err error
	if in.CPF, err = m.prompt("CPF (numbers only): "); err != nil {
		return err
	}
	// fail fast on the identifier before asking for the rest of the form
	cpf := ledger.NormalizeCPF(in.CPF)
	if len(cpf) != ledger.CPFLength {
		m.println("Error: CPF must contain 11 digits.")
		return nil
	}
	if _, err := m.ledger.Bank().FindUser(cpf); err == nil {
		m.println("Error: CPF already registered.")
		return nil
	}

	fields := []struct {
		label string
		dst   *string
	}{
		{"Full name: ", &in.Name},
		{"Birth date (dd/mm/yyyy): ", &in.BirthDate},
		{"Street: ", &in.Address.Street},
		{"Number: ", &in.Address.Number},
		{"District: ", &in.Address.District},
		{"City: ", &in.Address.City},
		{"State (2 letters): ", &in.Address.State},
	}
	for _, f := range fields {
		if *f.dst, err = m.prompt(f.label); err != nil {
			return err
		}
	}

	u, err := m.ledger.RegisterUser(in)
	if err != nil {
		m.printErr(err)
		return nil
	}
	m.printf("User %s registered successfully!\n", u.Name)
	return nil
}

func (m *Menu) createAccount() error {
	m.println()
	m.println("--- New account ---")
	cpf, err := m.prompt("Holder CPF: ")
	if err != nil {
		return err
	}

	a, err := m.ledger.CreateAccount(cpf)
	if err != nil {
		if errors.Is(err, ledger.ErrUserNotFound) {
			m.println("Error: user not found. Register the user first.")
			return nil
		}
		m.printErr(err)
		return nil
	}
	m.printf("Account %04d created successfully for %s!\n", a.Number(), a.Owner().Name)
	return nil
}

func (m *Menu) accessAccount(ctx context.Context) error {
	cpf, err := m.prompt("Account holder CPF: ")
	if err != nil {
		return err
	}

	acct, candidates, err := m.ledger.Bank().ResolveAccount(cpf)
	switch {
	case errors.Is(err, ledger.ErrNoAccountsForUser):
		m.printf("No account found for CPF %s.\n", ledger.NormalizeCPF(cpf))
		return nil
	case err != nil:
		m.printErr(err)
		return nil
	}

	if acct != nil {
		m.printf("Account %04d selected automatically.\n", acct.Number())
	} else if acct, err = m.chooseAccount(candidates); err != nil {
		return err
	}
	return m.operations(ctx, acct)
}

// chooseAccount lists candidates 1-based and asks until a valid position is given.
func (m *Menu) chooseAccount(candidates []*ledger.Account) (*ledger.Account, error) {
	m.println()
	m.println("Your accounts:")
	for i, a := range candidates {
		m.printf("%d. Account %04d - Balance: %s\n", i+1, a.Number(), money.Format(a.Balance()))
	}
	for {
		choice, err := m.prompt("Enter the option number of the account: ")
		if err != nil {
			return nil, err
		}
		a, err := ledger.SelectAccount(candidates, choice)
		if err == nil {
			return a, nil
		}
		m.printErr(err)
	}
}

func (m *Menu) operations(ctx context.Context, acct *ledger.Account) error {
	for {
		m.println()
		m.println(banner("OPERATIONS"))
		m.printf("Account: %04d | Holder: %s\n", acct.Number(), acct.Owner().Name)
		m.println("1 - Deposit")
		m.println("2 - Withdraw")
		m.println("3 - Statement")
		m.println("4 - Back to main menu")

		opt, err := m.prompt("Option: ")
		if err != nil {
			return err
		}
		switch opt {
		case "1":
			err = m.movement(ctx, acct, models.KindDeposit, m.ledger.Deposit)
		case "2":
			err = m.movement(ctx, acct, models.KindWithdrawal, m.ledger.Withdraw)
		case "3":
			m.printStatement(acct.Statement())
		case "4":
			return nil
		default:
			m.println("Invalid option. Try again.")
		}
		if err != nil {
			return err
		}
	}
}

type applyFunc func(context.Context, *ledger.Account, decimal.Decimal) (ledger.Receipt, error)

// movement reads an amount and applies it with do. Unparsable input never
// reaches the ledger.
func (m *Menu) movement(ctx context.Context, acct *ledger.Account, kind models.Kind, do applyFunc) error {
	raw, err := m.prompt(fmt.Sprintf("%s amount: R$ ", kind))
	if err != nil {
		return err
	}
	amount, err := money.ParseAmount(raw)
	if err != nil {
		m.printf("Error: invalid %s amount.\n", strings.ToLower(string(kind)))
		return nil
	}

	r, err := do(ctx, acct, amount)
	if err != nil {
		m.printErr(err)
		return nil
	}
	m.printf("%s of %s completed successfully! Balance: %s\n",
		kind, money.Format(r.Transaction.Amount), money.Format(r.BalanceAfter))
	return nil
}

func (m *Menu) printStatement(st models.Statement) {
	m.println()
	m.println(banner("STATEMENT"))
	m.printf("Branch: %s | Account: %04d\n", st.Branch, st.AccountNumber)
	m.printf("Holder: %s\n", st.OwnerName)
	m.println()
	m.println("Movements:")
	if st.Empty() {
		m.println("No movements recorded.")
	}
	for _, tx := range st.Entries {
		m.println(tx.String())
	}
	m.println()
	m.printf("Current balance: %s\n", money.Format(st.Balance))
	m.println(strings.Repeat("=", width))
}

func (m *Menu) listAccounts() {
	m.println()
	m.println(banner("REGISTERED ACCOUNTS"))
	accts := m.ledger.Bank().Accounts()
	if len(accts) == 0 {
		m.println("No accounts registered.")
		return
	}
	for _, a := range accts {
		m.println(a.Summary())
	}
	m.println(strings.Repeat("=", width))
}

func (m *Menu) listUsers() {
	m.println()
	m.println(banner("REGISTERED USERS"))
	users := m.ledger.Bank().Users()
	if len(users) == 0 {
		m.println("No users registered.")
	}
	for _, u := range users {
		m.println(u.Summary())
	}
	m.println(strings.Repeat("=", width))
}

// prompt prints label and returns the next trimmed input line.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *Menu) println(a ...any) {
	fmt.Fprintln(m.out, a...)
}

func (m *Menu) printf(format string, a ...any) {
	fmt.Fprintf(m.out, format, a...)
}

func (m *Menu) printErr(err error) {
	m.printf("Error: %v.\n", err)
}

// banner centers title in a line of '=' of the menu width.
func banner(title string) string {
	title = " " + title + " "
	pad := width - len(title)
	if pad < 0 {
		return title
	}
	left := pad / 2
	return strings.Repeat("=", left) + title + strings.Repeat("=", pad-left)
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
