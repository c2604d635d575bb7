package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"franchise_dao/contract"
	"franchise_dao/sdk"
)

// ProposalView is the printable form of a proposal.
type ProposalView struct {
	ID            uint64       `json:"id"`
	Proposer      string       `json:"proposer"`
	CreationBlock uint64       `json:"creation_block"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Upvotes       string       `json:"upvotes"`
	Downvotes     string       `json:"downvotes"`
	Status        string       `json:"status"`
	Executed      bool         `json:"executed"`
	Actions       []ActionView `json:"actions,omitempty"`
}

type ActionView struct {
	Target        string   `json:"target"`
	Endpoint      string   `json:"endpoint"`
	GasLimit      uint64   `json:"gas_limit"`
	PaymentAsset  string   `json:"payment_asset,omitempty"`
	PaymentAmount string   `json:"payment_amount,omitempty"`
	Args          []string `json:"args,omitempty"`
}

// NewProposalView flattens p for printing.
func NewProposalView(p contract.Proposal) ProposalView {
	v := ProposalView{
		ID:            p.ID,
		Proposer:      p.Proposer.String(),
		CreationBlock: p.CreationBlock,
		Title:         p.Title,
		Description:   p.Description,
		Upvotes:       dec(p.Upvotes),
		Downvotes:     dec(p.Downvotes),
		Status:        p.Status.String(),
		Executed:      p.WasExecuted,
	}
	for _, a := range contract.ActionsOf(p.Payload) {
		av := ActionView{
			Target:       a.Target.String(),
			Endpoint:     a.Endpoint,
			GasLimit:     a.GasLimit,
			PaymentAsset: a.PaymentAsset.String(),
		}
		if a.PaymentAmount != nil && !a.PaymentAmount.IsZero() {
			av.PaymentAmount = a.PaymentAmount.Dec()
		}
		for _, arg := range a.Args {
			av.Args = append(av.Args, fmt.Sprintf("0x%x", arg))
		}
		v.Actions = append(v.Actions, av)
	}
	return v
}

// StatusLabel colors a proposal status.
func StatusLabel(s contract.ProposalStatus) string {
	switch s {
	case contract.StatusPending:
		return pendingStyle.Sprint(s)
	case contract.StatusActive:
		return activeStyle.Sprint(s)
	case contract.StatusSucceeded:
		return succeededStyle.Sprint(s)
	case contract.StatusDefeated:
		return defeatedStyle.Sprint(s)
	case contract.StatusExecuted:
		return executedStyle.Sprint(s)
	}
	return s.String()
}

// ProposalsRenderer prints proposals as tables or JSON.
type ProposalsRenderer struct {
	out  io.Writer
	json bool
}

func NewProposalsRenderer(out io.Writer, asJSON bool) *ProposalsRenderer {
	return &ProposalsRenderer{out: out, json: asJSON}
}

// RenderList prints one row per proposal.
func (r *ProposalsRenderer) RenderList(props []contract.Proposal, total uint64) error {
	if r.json {
		views := make([]ProposalView, 0, len(props))
		for _, p := range props {
			views = append(views, NewProposalView(p))
		}
		return JSON(r.out, map[string]any{"total": total, "proposals": views})
	}
	if len(props) == 0 {
		fmt.Fprintln(r.out, "No proposals found")
		return nil
	}
	t := newTable(r.out, "ID", "Status", "Title", "Up", "Down", "Block", "Proposer")
	for _, p := range props {
		t.AppendRow(table.Row{
			p.ID,
			StatusLabel(p.Status),
			p.Title,
			amountStyle.Sprint(dec(p.Upvotes)),
			amountStyle.Sprint(dec(p.Downvotes)),
			p.CreationBlock,
			addressStyle.Sprint(p.Proposer),
		})
	}
	t.Render()
	fmt.Fprintf(r.out, "\n%d of %d proposals\n", len(props), total)
	return nil
}

// RenderProposal prints a single proposal with its actions and voters.
func (r *ProposalsRenderer) RenderProposal(p contract.Proposal, voters []sdk.Address) error {
	if r.json {
		return JSON(r.out, struct {
			ProposalView
			Voters []sdk.Address `json:"voters"`
		}{NewProposalView(p), voters})
	}
	fmt.Fprintln(r.out, headerStyle.Sprintf("Proposal #%d: %s", p.ID, p.Title))
	kv(r.out, [][2]string{
		{"status", StatusLabel(p.Status)},
		{"proposer", addressStyle.Sprint(p.Proposer)},
		{"created at", fmt.Sprint(p.CreationBlock)},
		{"upvotes", amountStyle.Sprint(dec(p.Upvotes))},
		{"downvotes", amountStyle.Sprint(dec(p.Downvotes))},
		{"voters", fmt.Sprint(len(voters))},
	})
	if p.Description != "" {
		fmt.Fprintf(r.out, "\n%s\n", p.Description)
	}
	actions := contract.ActionsOf(p.Payload)
	if len(actions) == 0 {
		fmt.Fprintln(r.out, labelStyle.Sprint("\nno actions"))
		return nil
	}
	fmt.Fprintln(r.out)
	t := newTable(r.out, "#", "Target", "Endpoint", "Gas", "Payment", "Args")
	for i, a := range NewProposalView(p).Actions {
		pay := ""
		if a.PaymentAmount != "" {
			pay = a.PaymentAmount + " " + a.PaymentAsset
		}
		t.AppendRow(table.Row{i, addressStyle.Sprint(a.Target), a.Endpoint, a.GasLimit, pay, strings.Join(a.Args, " ")})
	}
	t.Render()
	return nil
}

// RenderEscrow prints the payments one voter has locked in a proposal.
func (r *ProposalsRenderer) RenderEscrow(voter sdk.Address, id uint64, lines []sdk.Payment) error {
	if r.json {
		return JSON(r.out, map[string]any{"voter": voter, "proposal": id, "escrow": paymentsView(lines)})
	}
	if len(lines) == 0 {
		fmt.Fprintf(r.out, "%s has nothing escrowed in proposal #%d\n", voter, id)
		return nil
	}
	t := newTable(r.out, "Asset", "Amount")
	for _, l := range lines {
		t.AppendRow(table.Row{l.Asset, amountStyle.Sprint(dec(l.Amount))})
	}
	t.Render()
	return nil
}

func paymentsView(lines []sdk.Payment) map[string]string {
	out := make(map[string]string, len(lines))
	for _, l := range lines {
		out[l.Asset.String()] = dec(l.Amount)
	}
	return out
}
