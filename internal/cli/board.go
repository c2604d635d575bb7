package cli

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"franchise_dao/contract"
	"franchise_dao/internal/app"
	"franchise_dao/internal/cli/render"
	"franchise_dao/sdk"
)

// NewBoardCmd creates the board command group
func NewBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Multisig board actions that change the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			return listActions(cmd, a)
		},
	}
	cmd.AddCommand(
		newBoardProposeCmd(),
		newBoardSignCmd("sign", "Sign an open action", (*contract.DAO).Sign),
		newBoardSignCmd("unsign", "Withdraw a signature", (*contract.DAO).Unsign),
		newBoardSignCmd("discard", "Discard an action nobody on the board has signed", (*contract.DAO).DiscardAction),
		newBoardSignCmd("perform", "Apply an action that reached the board quorum", (*contract.DAO).PerformAction),
		newBoardShowCmd(),
		newBoardMembersCmd(),
	)
	return cmd
}

func newBoardProposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Open a new board action",
	}

	memberCmd := func(use, short string, propose func(*contract.DAO, context.Context, sdk.Address) (uint64, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <address>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return proposeAction(cmd, func(a *app.App) (uint64, error) {
					return propose(a.DAO, cmd.Context(), sdk.Address(args[0]))
				})
			},
		}
	}
	amountCmd := func(use, short string, propose func(*contract.DAO, context.Context, *uint256.Int) (uint64, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <amount>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				return proposeAction(cmd, func(a *app.App) (uint64, error) {
					return propose(a.DAO, cmd.Context(), v)
				})
			},
		}
	}
	countCmd := func(use, short string, propose func(*contract.DAO, context.Context, uint64) (uint64, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <n>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := parseID(args[0])
				if err != nil {
					return err
				}
				return proposeAction(cmd, func(a *app.App) (uint64, error) {
					return propose(a.DAO, cmd.Context(), n)
				})
			},
		}
	}

	cmd.AddCommand(
		memberCmd("add-member", "Add a board member", (*contract.DAO).ProposeAddBoardMember),
		memberCmd("remove-member", "Remove a board member", (*contract.DAO).ProposeRemoveBoardMember),
		countCmd("board-quorum", "Change the number of signatures an action needs", (*contract.DAO).ProposeChangeBoardQuorum),
		amountCmd("quorum", "Change the proposal quorum", (*contract.DAO).ProposeChangeQuorum),
		countCmd("voting-period", "Change the voting period in blocks", (*contract.DAO).ProposeChangeVotingPeriod),
		amountCmd("tax", "Change the proposal tax", (*contract.DAO).ProposeChangeTaxAmount),
		&cobra.Command{
			Use:   "add-token <asset> <weight>",
			Short: "Add a voting token or change its weight",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				w, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				return proposeAction(cmd, func(a *app.App) (uint64, error) {
					return a.DAO.ProposeAddVotingToken(cmd.Context(), sdk.Asset(args[0]), w)
				})
			},
		},
		&cobra.Command{
			Use:   "remove-token <asset>",
			Short: "Remove a voting token",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return proposeAction(cmd, func(a *app.App) (uint64, error) {
					return a.DAO.ProposeRemoveVotingToken(cmd.Context(), sdk.Asset(args[0]))
				})
			},
		},
	)
	return cmd
}

func proposeAction(cmd *cobra.Command, propose func(a *app.App) (uint64, error)) error {
	a, err := getApp(cmd)
	if err != nil {
		return err
	}
	if err := requireCaller(a); err != nil {
		return err
	}
	id, err := propose(a)
	if err != nil {
		return err
	}
	return done(cmd, a, "opened board action #%d", id)
}

func newBoardSignCmd(use, short string, op func(*contract.DAO, context.Context, uint64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <action-id>",
		Short: short,
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
			if err := op(a.DAO, cmd.Context(), id); err != nil {
				return err
			}
			return done(cmd, a, "%s action #%d", use, id)
		},
	}
}

func newBoardShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <action-id>",
		Short: "Show an open action, or the outcome of a closed one",
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
			r := render.NewBoardRenderer(cmd.OutOrStdout(), a.Config.JSON)
			rec, err := a.DAO.Action(cmd.Context(), id)
			if errors.Is(err, contract.ErrNotFound) {
				o, oerr := a.DAO.ActionOutcome(cmd.Context(), id)
				if oerr != nil {
					return err
				}
				return r.RenderOutcome(o)
			}
			if err != nil {
				return err
			}
			view, err := actionView(cmd.Context(), a, rec)
			if err != nil {
				return err
			}
			return r.RenderActions([]render.BoardActionView{view})
		},
	}
}

func newBoardMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "List board members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			members, err := a.DAO.BoardMembers(cmd.Context())
			if err != nil {
				return err
			}
			quorum, err := a.DAO.BoardQuorum(cmd.Context())
			if err != nil {
				return err
			}
			return render.NewBoardRenderer(cmd.OutOrStdout(), a.Config.JSON).RenderMembers(members, quorum)
		},
	}
}

func listActions(cmd *cobra.Command, a *app.App) error {
	recs, err := a.DAO.OpenActions(cmd.Context())
	if err != nil {
		return err
	}
	views := make([]render.BoardActionView, 0, len(recs))
	for _, rec := range recs {
		v, err := actionView(cmd.Context(), a, rec)
		if err != nil {
			return err
		}
		views = append(views, v)
	}
	return render.NewBoardRenderer(cmd.OutOrStdout(), a.Config.JSON).RenderActions(views)
}

func actionView(ctx context.Context, a *app.App, rec contract.BoardActionRecord) (render.BoardActionView, error) {
	valid, err := a.DAO.ValidSignerCount(ctx, rec.ID)
	if err != nil {
		return render.BoardActionView{}, err
	}
	quorum, err := a.DAO.BoardQuorum(ctx)
	if err != nil {
		return render.BoardActionView{}, err
	}
	return render.BoardActionView{
		ID:           rec.ID,
		Kind:         rec.Action.Kind(),
		Detail:       render.ActionDetail(rec.Action),
		Signers:      rec.Signers,
		ValidSigners: valid,
		Quorum:       quorum,
	}, nil
}
