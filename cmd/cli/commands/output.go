package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// printer writes colored text on a terminal and JSON everywhere else.
type printer struct {
	w      io.Writer
	pretty bool

	key   *color.Color
	ok    *color.Color
	fail  *color.Color
	faint *color.Color
}

func newPrinter(w io.Writer, forceJSON bool) *printer {
	return &printer{
		w:      w,
		pretty: !forceJSON && isTerminal(w),
		key:    color.New(color.FgCyan, color.Bold),
		ok:     color.New(color.FgGreen),
		fail:   color.New(color.FgRed),
		faint:  color.New(color.Faint),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Account prints a single account.
func (p *printer) Account(acc account.Account) error {
	if !p.pretty {
		return p.json(acc)
	}
	p.key.Fprintf(p.w, "Account #%d\n", acc.ID)
	rows := []struct{ label, value string }{
		{"name", acc.Name},
		{"email", acc.Email},
		{"phone_number", acc.PhoneNumber},
		{"address", acc.Address},
		{"city", acc.City},
		{"postal_code", acc.PostalCode},
		{"country", acc.Country},
	}
	for _, r := range rows {
		p.faint.Fprintf(p.w, "  %-13s", r.label)
		fmt.Fprintln(p.w, r.value)
	}
	return nil
}

// Accounts prints a list; JSON output is always an array.
func (p *printer) Accounts(accs []account.Account) error {
	if accs == nil {
		accs = []account.Account{}
	}
	if !p.pretty {
		return p.json(accs)
	}
	if len(accs) == 0 {
		p.faint.Fprintln(p.w, "No accounts")
		return nil
	}
	for _, acc := range accs {
		if err := p.Account(acc); err != nil {
			return err
		}
	}
	return nil
}

// FieldErrors prints parameter check results as [{"field": "message"}].
func (p *printer) FieldErrors(errs []account.FieldError) error {
	if !p.pretty {
		out := make([]map[string]string, 0, len(errs))
		for _, fe := range errs {
			out = append(out, map[string]string{fe.Field: fe.Message})
		}
		return p.json(out)
	}
	if len(errs) == 0 {
		p.ok.Fprintln(p.w, "✔ account parameters are valid")
		return nil
	}
	for _, fe := range errs {
		p.fail.Fprintf(p.w, "✘ %s: ", fe.Field)
		fmt.Fprintln(p.w, fe.Message)
	}
	return nil
}
