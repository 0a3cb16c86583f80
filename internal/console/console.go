// Package console implements the interactive teller menus: administrator and
// staff panels behind access codes, and the self-service ATM and CDM menus
// behind an account PIN.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aretw0/tally/internal/auth"
	"github.com/aretw0/tally/pkg/core"
)

// Ledger is the part of core.Ledger the menus drive.
type Ledger interface {
	CreateAccount(ctx context.Context, p core.Profile, pin int, initialBalance int64) (int, error)
	DeleteAccount(ctx context.Context, id int) error
	ChangeInfo(ctx context.Context, id int, p core.Profile) error
	ChangeInfoAndPIN(ctx context.Context, id int, p core.Profile, newPin int) error
	ChangePIN(ctx context.Context, id, oldPin, newPin int) error
	Deposit(ctx context.Context, id, pin int, amount int64) (int64, error)
	Withdraw(ctx context.Context, id, pin int, amount int64) (int64, error)
	Transfer(ctx context.Context, src, pin, dst int, amount int64) (int64, error)
	Balance(ctx context.Context, id, pin int) (int64, error)
	MiniStatement(ctx context.Context, id, pin, count int) ([]core.Entry, error)
	History(ctx context.Context, id int) (core.History, error)
	Account(ctx context.Context, id int) (core.Account, error)
	Accounts(ctx context.Context) []core.Account
	Exists(ctx context.Context, id int) bool
	VerifyPIN(ctx context.Context, id, pin int) error
	Policy() core.Policy
}

var _ Ledger = (*core.Ledger)(nil)

// errQuit unwinds every menu when the operator picks exit.
var errQuit = errors.New("quit")

// Console runs the menus over a line-oriented reader and writer.
type Console struct {
	ledger        Ledger
	gate          *auth.Gate
	in            *bufio.Scanner
	lines         <-chan inputLine
	out           io.Writer
	logger        *slog.Logger
	statementSize int
}

// Option configures a Console.
type Option func(*Console)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStatementSize sets how many entries a mini statement shows.
func WithStatementSize(n int) Option {
	return func(c *Console) {
		if n > 0 {
			c.statementSize = n
		}
	}
}

// New creates a console reading operator input from in.
func New(ledger Ledger, gate *auth.Gate, in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		ledger:        ledger,
		gate:          gate,
		in:            bufio.NewScanner(in),
		out:           out,
		logger:        slog.Default(),
		statementSize: 5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run shows the login panel until the operator exits, the input ends or
// ctx is cancelled, including while a prompt waits for input. All three are
// normal exits. A Console runs once.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.lines = c.scan(ctx)

	err := c.loginPanel(ctx)
	if errors.Is(err, io.EOF) || errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		c.println("Bye!")
		return nil
	}
	return err
}

func (c *Console) loginPanel(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.banner("LOGIN || PANEL",
			"1. ADMIN Login",
			"2. STAFF Login",
			"3. ATM/CDM Service",
			"4. Exit",
		)
		choice, err := c.readChoice(ctx, "Enter Your Choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.withRole(ctx, auth.Admin, "Enter Admin PIN: ", c.adminPanel)
		case 2:
			err = c.withRole(ctx, auth.Staff, "Enter Staff PIN: ", c.staffPanel)
		case 3:
			err = c.selfServicePanel(ctx)
		case 4:
			return errQuit
		default:
			c.println("Invalid option.")
		}
		if err != nil {
			return err
		}
	}
}

// withRole verifies the role's access code and runs panel in a new session.
func (c *Console) withRole(ctx context.Context, role auth.Role, label string, panel func(context.Context, *slog.Logger) error) error {
	code, err := c.readLine(ctx, label)
	if err != nil {
		return err
	}
	if err := c.gate.Verify(role, code); err != nil {
		c.logger.Warn("login refused", "role", role, "code", code)
		c.println("Wrong PIN.")
		return nil
	}

	log := c.logger.With("session", uuid.NewString(), "role", role)
	log.Info("session started")
	defer log.Info("session ended")
	return panel(ctx, log)
}

func (c *Console) banner(title string, lines ...string) {
	c.println("")
	c.printf("********** %s **********\n", title)
	for _, l := range lines {
		c.println(l)
	}
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// report prints the operator message for a ledger error.
func (c *Console) report(err error) {
	c.println(Message(err))
}

// Message renders a ledger error for operators.
func Message(err error) string {
	switch {
	case errors.Is(err, core.ErrStorage):
		return "Storage unavailable, nothing was changed."
	case errors.Is(err, core.ErrNotFound):
		return "Account not found."
	case errors.Is(err, core.ErrDestinationNotFound):
		return "Recipient account not found."
	case errors.Is(err, core.ErrSelfTransfer):
		return "Cannot transfer to the same account."
	case errors.Is(err, core.ErrBadPIN):
		return "PIN incorrect."
	case errors.Is(err, core.ErrInsufficientFunds):
		return "Insufficient funds."
	case errors.Is(err, core.ErrInvalidAmount):
		return "Invalid amount."
	case errors.Is(err, core.ErrDuplicateIdentity):
		return "Account with this passport number already exists!"
	case errors.Is(err, core.ErrNoLogs):
		return "No transactions."
	case errors.Is(err, core.ErrInvalidProfile), errors.Is(err, core.ErrInvalidPIN):
		return err.Error()
	default:
		return "Operation failed: " + err.Error()
	}
}
