package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"franchise_dao/storage"
)

// RenderOutbox prints the calls dispatched by executed proposals.
func RenderOutbox(out io.Writer, entries []storage.OutboxEntry, asJSON bool) error {
	if asJSON {
		return JSON(out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "Outbox is empty")
		return nil
	}
	t := newTable(out, "Seq", "Target", "Endpoint", "Gas", "Payment", "Args")
	for _, e := range entries {
		pay := ""
		if e.PaymentAmount != "" {
			pay = e.PaymentAmount + " " + e.PaymentAsset.String()
		}
		args := make([]string, 0, len(e.Args))
		for _, a := range e.Args {
			args = append(args, a.String())
		}
		t.AppendRow(table.Row{e.Seq, addressStyle.Sprint(e.Target), e.Endpoint, e.GasLimit, pay, strings.Join(args, " ")})
	}
	t.Render()
	return nil
}
