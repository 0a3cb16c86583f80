package console

import (
	"context"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/aretw0/tally/pkg/core"
)

// inputLine is one line read from the operator, or the error that ended
// the input.
type inputLine struct {
	text string
	err  error
}

// scan feeds input lines to the returned channel until the input ends or
// ctx is done. The final value carries io.EOF or the scanner error.
func (c *Console) scan(ctx context.Context) <-chan inputLine {
	lines := make(chan inputLine)
	go func() {
		defer close(lines)
		for c.in.Scan() {
			select {
			case lines <- inputLine{text: c.in.Text()}:
			case <-ctx.Done():
				return
			}
		}
		err := c.in.Err()
		if err == nil {
			err = io.EOF
		}
		select {
		case lines <- inputLine{err: err}:
		case <-ctx.Done():
		}
	}()
	return lines
}

// readLine prompts and returns one trimmed line. It gives up with the
// context error when ctx is done first, and returns io.EOF once the input
// has ended.
func (c *Console) readLine(ctx context.Context, prompt string) (string, error) {
	c.printf("%s", prompt)
	if err := ctx.Err(); err != nil {
		c.println("")
		return "", err
	}
	select {
	case <-ctx.Done():
		c.println("")
		return "", ctx.Err()
	case l, ok := <-c.lines:
		if !ok {
			c.println("")
			return "", io.EOF
		}
		if l.err != nil {
			c.println("")
			return "", l.err
		}
		return strings.TrimSpace(l.text), nil
	}
}

// readChoice reads a menu option. Anything that is not a number yields 0,
// which no menu accepts.
func (c *Console) readChoice(ctx context.Context, prompt string) (int, error) {
	line, err := c.readLine(ctx, prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// readAccountNumber insists on a digits-only account number of at least
// four digits, the width account numbers are printed with.
func (c *Console) readAccountNumber(ctx context.Context, prompt string) (int, error) {
	for {
		line, err := c.readLine(ctx, prompt)
		if err != nil {
			return 0, err
		}
		if isDigits(line) && len(line) >= 4 {
			if n, err := strconv.Atoi(line); err == nil {
				return n, nil
			}
		}
		c.println("Invalid input.")
	}
}

// readAmount accepts a positive whole amount. Decimal input such as
// "100.00" is allowed as long as it has no fractional part.
func (c *Console) readAmount(ctx context.Context, prompt string) (int64, error) {
	return c.readWhole(ctx, prompt, false)
}

// readWhole reads a whole, non-negative amount; zero only with allowZero.
func (c *Console) readWhole(ctx context.Context, prompt string, allowZero bool) (int64, error) {
	for {
		line, err := c.readLine(ctx, prompt)
		if err != nil {
			return 0, err
		}
		if amount, ok := ParseWhole(line); ok && (amount > 0 || allowZero) {
			return amount, nil
		}
		c.println("Invalid amount. Enter a whole number of ringgit.")
	}
}

// ParseWhole parses a non-negative whole amount, accepting decimal
// notation without a fractional part ("100.00").
func ParseWhole(s string) (int64, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() || d.IsNegative() {
		return 0, false
	}
	if !d.BigInt().IsInt64() {
		return 0, false
	}
	return d.IntPart(), true
}

// readPIN insists on exactly four digits.
func (c *Console) readPIN(ctx context.Context, prompt string) (int, error) {
	for {
		line, err := c.readLine(ctx, prompt)
		if err != nil {
			return 0, err
		}
		if pin, ok := parsePIN(line); ok {
			return pin, nil
		}
		c.println("PIN must be exactly 4 digits.")
	}
}

// readOptionalPIN is readPIN where a blank line means keep the current one.
func (c *Console) readOptionalPIN(ctx context.Context, prompt string) (int, bool, error) {
	for {
		line, err := c.readLine(ctx, prompt)
		if err != nil {
			return 0, false, err
		}
		if line == "" {
			return 0, false, nil
		}
		if pin, ok := parsePIN(line); ok {
			return pin, true, nil
		}
		c.println("PIN must be exactly 4 digits.")
	}
}

func parsePIN(s string) (int, bool) {
	if len(s) != 4 || !isDigits(s) {
		return 0, false
	}
	pin, err := strconv.Atoi(s)
	return pin, err == nil
}

// readName insists on letters and spaces with at least four letters.
func (c *Console) readName(ctx context.Context, prompt string) (string, error) {
	for {
		line, err := c.readLine(ctx, prompt)
		if err != nil {
			return "", err
		}
		if validName(line) {
			return line, nil
		}
		c.println("Invalid input.")
	}
}

func validName(s string) bool {
	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case r == ' ':
		default:
			return false
		}
	}
	return letters >= 4
}

// readIdentity normalizes the passport number and checks its shape.
func (c *Console) readIdentity(ctx context.Context, prompt string) (string, error) {
	for {
		line, err := c.readLine(ctx, prompt)
		if err != nil {
			return "", err
		}
		id := core.NormalizeIdentity(line)
		switch {
		case id == "":
			c.println("Please enter your passport number.")
		case !core.ValidIdentity(id):
			c.println("Passport number must be 6-9 letters/digits, no spaces or symbols.")
		default:
			return id, nil
		}
	}
}

// readGender accepts M or F, case-insensitively.
func (c *Console) readGender(ctx context.Context, prompt string) (core.Gender, error) {
	for {
		line, err := c.readLine(ctx, prompt)
		if err != nil {
			return 0, err
		}
		if g, ok := ParseGender(line); ok {
			return g, nil
		}
		c.println("Invalid gender.")
	}
}

// readAccountType accepts C (current) or S (savings).
func (c *Console) readAccountType(ctx context.Context, prompt string) (core.AccountType, error) {
	for {
		line, err := c.readLine(ctx, prompt)
		if err != nil {
			return "", err
		}
		if t, ok := ParseAccountType(line); ok {
			return t, nil
		}
		c.println("Invalid account type.")
	}
}

// ParseGender accepts M/F or the full word, case-insensitively.
func ParseGender(s string) (core.Gender, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M", "MALE":
		return core.Male, true
	case "F", "FEMALE":
		return core.Female, true
	}
	return 0, false
}

// ParseAccountType accepts C/S or the full type name, case-insensitively.
func ParseAccountType(s string) (core.AccountType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C", "CURRENT":
		return core.Current, true
	case "S", "SAVINGS":
		return core.Savings, true
	}
	return "", false
}

// readProfile collects every holder field.
func (c *Console) readProfile(ctx context.Context, namePrompt, idPrompt string) (core.Profile, error) {
	var p core.Profile
	var err error
	if p.Name, err = c.readName(ctx, namePrompt); err != nil {
		return p, err
	}
	if p.Identity, err = c.readIdentity(ctx, idPrompt); err != nil {
		return p, err
	}
	if p.Gender, err = c.readGender(ctx, "Enter Gender (M/F): "); err != nil {
		return p, err
	}
	if p.Type, err = c.readAccountType(ctx, "Enter Account Type Current/Savings (C/S): "); err != nil {
		return p, err
	}
	return p, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
