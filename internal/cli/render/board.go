package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"franchise_dao/contract"
	"franchise_dao/sdk"
)

// BoardActionView is the printable form of an open board action.
type BoardActionView struct {
	ID           uint64        `json:"id"`
	Kind         string        `json:"kind"`
	Detail       string        `json:"detail"`
	Signers      []sdk.Address `json:"signers"`
	ValidSigners uint64        `json:"valid_signers"`
	Quorum       uint64        `json:"quorum"`
}

// ActionDetail describes the change an action makes.
func ActionDetail(a contract.BoardAction) string {
	switch a := a.(type) {
	case contract.AddBoardMember:
		return "add " + a.Member.String()
	case contract.RemoveBoardMember:
		return "remove " + a.Member.String()
	case contract.ChangeBoardQuorum:
		return fmt.Sprintf("board quorum -> %d", a.Quorum)
	case contract.ChangeQuorum:
		return "quorum -> " + dec(a.Quorum)
	case contract.ChangeVotingPeriod:
		return fmt.Sprintf("voting period -> %d", a.Period)
	case contract.AddVotingToken:
		return fmt.Sprintf("token %s weight %s", a.Token, dec(a.Weight))
	case contract.RemoveVotingToken:
		return "drop token " + a.Token.String()
	case contract.ChangeTaxAmount:
		return "tax -> " + dec(a.Amount)
	}
	return "-"
}

// BoardRenderer prints board members, open actions and outcomes.
type BoardRenderer struct {
	out  io.Writer
	json bool
}

func NewBoardRenderer(out io.Writer, asJSON bool) *BoardRenderer {
	return &BoardRenderer{out: out, json: asJSON}
}

func (r *BoardRenderer) RenderMembers(members []sdk.Address, quorum uint64) error {
	if r.json {
		return JSON(r.out, map[string]any{"members": members, "quorum": quorum})
	}
	fmt.Fprintln(r.out, headerStyle.Sprintf("Board (%d of %d signatures required)", quorum, len(members)))
	for _, m := range members {
		fmt.Fprintln(r.out, "  "+addressStyle.Sprint(m))
	}
	return nil
}

func (r *BoardRenderer) RenderActions(actions []BoardActionView) error {
	if r.json {
		return JSON(r.out, actions)
	}
	if len(actions) == 0 {
		fmt.Fprintln(r.out, "No open board actions")
		return nil
	}
	t := newTable(r.out, "ID", "Kind", "Change", "Signatures")
	for _, a := range actions {
		sig := fmt.Sprintf("%d/%d", a.ValidSigners, a.Quorum)
		if a.ValidSigners >= a.Quorum {
			sig = succeededStyle.Sprint(sig)
		} else {
			sig = pendingStyle.Sprint(sig)
		}
		t.AppendRow(table.Row{a.ID, a.Kind, a.Detail, sig})
	}
	t.Render()
	return nil
}

func (r *BoardRenderer) RenderOutcome(o contract.ActionOutcome) error {
	if r.json {
		return JSON(r.out, map[string]any{
			"id": o.ID, "kind": o.Kind, "outcome": o.Outcome.String(),
			"closed_by": o.ClosedBy, "height": o.Height,
		})
	}
	style := defeatedStyle
	if o.Outcome == contract.OutcomeExecuted {
		style = succeededStyle
	}
	kv(r.out, [][2]string{
		{"action", fmt.Sprintf("#%d %s", o.ID, o.Kind)},
		{"outcome", style.Sprint(o.Outcome)},
		{"closed by", addressStyle.Sprint(o.ClosedBy)},
		{"at block", fmt.Sprint(o.Height)},
	})
	return nil
}
