package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"franchise_dao/contract"
	"franchise_dao/internal/cli/render"
	"franchise_dao/sdk"
)

// NewProposalCmd creates the proposal command group
func NewProposalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proposal",
		Aliases: []string{"p"},
		Short:   "Create, vote on and execute token-voted proposals",
	}
	cmd.AddCommand(
		newProposalCreateCmd(),
		newProposalShowCmd(),
		newProposalListCmd(),
		newProposalStatusCmd(),
		newVoteCmd("upvote", contract.VoteUp),
		newVoteCmd("downvote", contract.VoteDown),
		newProposalRedeemCmd(),
		newProposalExecuteCmd(),
		newProposalEscrowCmd(),
	)
	return cmd
}

func newProposalCreateCmd() *cobra.Command {
	var (
		title, description, deposit string
		calls                       []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a proposal",
		Long: `Creates a proposal. Under the deposit gate the --deposit payment must be at
least the minimum proposal amount; the deposit is escrowed and
counted as the proposer's upvote. Under the board gate only board members
may propose and the deposit is optional.

Actions are given with --call, repeatable:
  --call target=<addr>,endpoint=<name>,gas=<n>,asset=<a>,amount=<n>,args=0x01;0x02`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			if err := requireCaller(a); err != nil {
				return err
			}
			pa := contract.ProposeArgs{Title: title, Description: description}
			for _, c := range calls {
				act, err := parseCall(c)
				if err != nil {
					return err
				}
				pa.Actions = append(pa.Actions, act)
			}

			var pay *sdk.Payment
			if deposit != "" {
				p, err := payment(cmd, a, deposit)
				if err != nil {
					return err
				}
				if err := attach(a, p); err != nil {
					return err
				}
				pay = &p
			}

			id, err := a.DAO.ProposeTokenVote(cmd.Context(), pa, pay)
			if err != nil {
				return err
			}
			return done(cmd, a, "created proposal #%d", id)
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Proposal title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Proposal description")
	cmd.Flags().StringVar(&deposit, "deposit", "", "Deposit amount sent with the proposal")
	cmd.Flags().String("asset", "", "Deposit asset (defaults to the governance token)")
	cmd.Flags().StringArrayVar(&calls, "call", nil, "Action to dispatch on execution (repeatable)")
	return cmd
}

func newProposalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a proposal with its actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.DAO.Proposal(cmd.Context(), id)
			if err != nil {
				return err
			}
			voters, err := a.DAO.ProposalVoters(cmd.Context(), id)
			if err != nil {
				return err
			}
			return render.NewProposalsRenderer(cmd.OutOrStdout(), a.Config.JSON).RenderProposal(p, voters)
		},
	}
}

func newProposalListCmd() *cobra.Command {
	var (
		from, to uint64
		status   string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List proposals",
		Long: `Lists proposals by position. --from and --to are inclusive positions in
creation order, counted among the proposals that pass the --status filter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			var filter *contract.ProposalStatus
			if status != "" {
				s, ok := contract.ParseProposalStatus(status)
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				filter = &s
			}
			ctx := cmd.Context()
			total, err := a.DAO.ProposalsCount(ctx, filter)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("to") {
				if total == 0 {
					return render.NewProposalsRenderer(cmd.OutOrStdout(), a.Config.JSON).RenderList(nil, 0)
				}
				to = total - 1
			}
			props, err := a.DAO.Proposals(ctx, from, to, filter)
			if err != nil {
				return err
			}
			return render.NewProposalsRenderer(cmd.OutOrStdout(), a.Config.JSON).RenderList(props, total)
		},
	}
	cmd.Flags().Uint64Var(&from, "from", 0, "First position")
	cmd.Flags().Uint64Var(&to, "to", 0, "Last position (defaults to the last proposal)")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Only proposals in this status")
	return cmd
}

func newProposalStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id>",
		Short: "Print the current status of a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.DAO.ProposalStatus(cmd.Context(), id)
			if err != nil {
				return err
			}
			if a.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), map[string]any{"id": id, "status": s.String()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.StatusLabel(s))
			return nil
		},
	}
}

func newVoteCmd(name string, dir contract.VoteDirection) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " <id> <amount>",
		Short: fmt.Sprintf("Escrow tokens as a %s vote", dir),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			if err := requireCaller(a); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := payment(cmd, a, args[1])
			if err != nil {
				return err
			}
			if err := attach(a, p); err != nil {
				return err
			}
			ctx := cmd.Context()
			if dir == contract.VoteUp {
				err = a.DAO.Upvote(ctx, id, p)
			} else {
				err = a.DAO.Downvote(ctx, id, p)
			}
			if err != nil {
				return err
			}
			w, err := a.DAO.VoteWeight(ctx, p)
			if err != nil {
				return err
			}
			return done(cmd, a, "%s on #%d with %s %s (weight %s)", name, id, p.Amount.Dec(), p.Asset, w.Dec())
		},
	}
	cmd.Flags().String("asset", "", "Voting token (defaults to the governance token)")
	return cmd
}

func newProposalRedeemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redeem <id>",
		Short: "Withdraw the caller's escrow from a concluded proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			if err := requireCaller(a); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.DAO.Redeem(cmd.Context(), id); err != nil {
				return err
			}
			return done(cmd, a, "redeemed escrow of proposal #%d", id)
		},
	}
}

func newProposalExecuteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "execute <id>",
		Short: "Dispatch the actions of a succeeded proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.DAO.Execute(cmd.Context(), id); err != nil {
				return err
			}
			return done(cmd, a, "executed proposal #%d", id)
		},
	}
}

func newProposalEscrowCmd() *cobra.Command {
	var voter string
	cmd := &cobra.Command{
		Use:   "escrow <id>",
		Short: "Show what a voter has escrowed in a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			who := a.Config.Caller
			if voter != "" {
				who = sdk.Address(voter).Canonical()
			}
			lines, err := a.DAO.Escrow(cmd.Context(), who, id)
			if err != nil {
				return err
			}
			return render.NewProposalsRenderer(cmd.OutOrStdout(), a.Config.JSON).RenderEscrow(who, id, lines)
		},
	}
	cmd.Flags().StringVar(&voter, "voter", "", "Voter address (defaults to the caller)")
	return cmd
}
