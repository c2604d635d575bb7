package render

import (
	"fmt"
	"io"

	"github.com/holiman/uint256"
	"github.com/jedib0t/go-pretty/v6/table"

	"franchise_dao/contract"
	"franchise_dao/sdk"
)

func dec(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

// ConfigView is the printable form of the governance configuration.
type ConfigView struct {
	State             string            `json:"state"`
	Owner             string            `json:"owner"`
	GovernanceToken   string            `json:"governance_token"`
	Quorum            string            `json:"quorum"`
	VotingPeriod      uint64            `json:"voting_period"`
	MinProposalAmount string            `json:"min_proposal_amount"`
	TaxAmount         string            `json:"tax_amount"`
	BoardQuorum       uint64            `json:"board_quorum"`
	VotingMode        string            `json:"voting_mode"`
	ProposalGate      string            `json:"proposal_gate"`
	BoardMembers      []sdk.Address     `json:"board_members"`
	VotingTokens      map[string]string `json:"voting_tokens"`
}

// ConfigRenderer prints the configuration together with the board and the
// voting token ledger.
type ConfigRenderer struct {
	out  io.Writer
	json bool
}

func NewConfigRenderer(out io.Writer, asJSON bool) *ConfigRenderer {
	return &ConfigRenderer{out: out, json: asJSON}
}

func (r *ConfigRenderer) Render(cfg contract.Config, members []sdk.Address, tokens []contract.VotingToken) error {
	v := ConfigView{
		State:             cfg.State.String(),
		Owner:             cfg.Owner.String(),
		GovernanceToken:   cfg.GovernanceToken.String(),
		Quorum:            dec(cfg.Quorum),
		VotingPeriod:      cfg.VotingPeriod,
		MinProposalAmount: dec(cfg.MinProposalAmount),
		TaxAmount:         dec(cfg.TaxAmount),
		BoardQuorum:       cfg.BoardQuorum,
		VotingMode:        cfg.VotingMode.String(),
		ProposalGate:      cfg.ProposalGate.String(),
		BoardMembers:      members,
		VotingTokens:      make(map[string]string, len(tokens)),
	}
	for _, t := range tokens {
		v.VotingTokens[t.Asset.String()] = dec(t.Weight)
	}
	if r.json {
		return JSON(r.out, v)
	}

	state := defeatedStyle.Sprint(v.State)
	if cfg.State == contract.StateActive {
		state = succeededStyle.Sprint(v.State)
	}
	fmt.Fprintln(r.out, headerStyle.Sprint("DAO configuration"))
	kv(r.out, [][2]string{
		{"state", state},
		{"owner", addressStyle.Sprint(v.Owner)},
		{"governance token", v.GovernanceToken},
		{"quorum", amountStyle.Sprint(v.Quorum)},
		{"voting period", fmt.Sprintf("%d blocks", v.VotingPeriod)},
		{"min proposal amount", amountStyle.Sprint(v.MinProposalAmount)},
		{"tax amount", amountStyle.Sprint(v.TaxAmount)},
		{"voting mode", v.VotingMode},
		{"proposal gate", v.ProposalGate},
		{"board quorum", fmt.Sprintf("%d of %d", v.BoardQuorum, len(members))},
	})

	fmt.Fprintln(r.out, headerStyle.Sprint("\nVoting tokens"))
	t := newTable(r.out, "Asset", "Weight")
	for _, tok := range tokens {
		t.AppendRow(table.Row{tok.Asset, amountStyle.Sprint(dec(tok.Weight))})
	}
	t.Render()
	return nil
}

// BalancesRenderer prints ledger balances.
type BalancesRenderer struct {
	out  io.Writer
	json bool
}

func NewBalancesRenderer(out io.Writer, asJSON bool) *BalancesRenderer {
	return &BalancesRenderer{out: out, json: asJSON}
}

func (r *BalancesRenderer) Render(addr sdk.Address, balances []sdk.Payment) error {
	if r.json {
		return JSON(r.out, map[string]any{"address": addr, "balances": paymentsView(balances)})
	}
	fmt.Fprintln(r.out, addressStyle.Sprint(addr))
	t := newTable(r.out, "Asset", "Balance")
	for _, b := range balances {
		t.AppendRow(table.Row{b.Asset, amountStyle.Sprint(dec(b.Amount))})
	}
	t.Render()
	return nil
}
