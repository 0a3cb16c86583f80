package console

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aretw0/tally/pkg/core"
)

func formatMoney(n int64) string {
	return fmt.Sprintf("%s %d", core.Currency, n)
}

// printAccountSummary is the staff view: no identity number, no PIN.
func (c *Console) printAccountSummary(a core.Account) {
	c.printf("Account No: %s; Name: %s; Gender: %s; Balance: %s\n",
		core.FormatAccountID(a.ID), a.Name, a.Gender, formatMoney(a.Balance))
}

// printAccountDetails is the administrator view.
func (c *Console) printAccountDetails(a core.Account) {
	c.printf("Account No: %s; Name: %s; Passport No: %s; Gender: %s; Type: %s; PIN: %s; Balance: %s\n",
		core.FormatAccountID(a.ID), a.Name, a.Identity, a.Gender, a.Type, core.FormatPIN(a.PIN), formatMoney(a.Balance))
}

// WriteAccountTable renders accounts as an aligned table.
func WriteAccountTable(w io.Writer, accounts []core.Account, showPIN bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if showPIN {
		fmt.Fprintln(tw, "ACC_NUMBER\tNAME\tPASSPORT_NO\tGENDER\tTYPE\tPIN\tBALANCE (RM)")
	} else {
		fmt.Fprintln(tw, "ACC_NUMBER\tNAME\tPASSPORT_NO\tGENDER\tTYPE\tBALANCE (RM)")
	}
	for _, a := range accounts {
		if showPIN {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
				core.FormatAccountID(a.ID), a.Name, a.Identity, a.Gender, a.Type, core.FormatPIN(a.PIN), a.Balance)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
				core.FormatAccountID(a.ID), a.Name, a.Identity, a.Gender, a.Type, a.Balance)
		}
	}
	return tw.Flush()
}

// WriteEntries prints log entries one per line in their stored form.
func WriteEntries(w io.Writer, entries []core.Entry) {
	for _, e := range entries {
		fmt.Fprintln(w, e.String())
	}
}

func (c *Console) printHistory(h core.History) {
	if h.Archived {
		c.printf("Account %s was deleted. Archived log:\n", core.FormatAccountID(h.AccountID))
	}
	if len(h.Entries) == 0 {
		c.println("[No logs]")
		return
	}
	WriteEntries(c.out, h.Entries)
}
