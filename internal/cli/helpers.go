package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fatih/color"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"franchise_dao/contract"
	"franchise_dao/internal/app"
	"franchise_dao/internal/cli/render"
	"franchise_dao/internal/config"
	"franchise_dao/sdk"
)

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseAmount(s string) (*uint256.Int, error) {
	v, err := config.ParseAmount(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid amount %q", s)
	}
	return v, nil
}

// payment builds a payment, defaulting the asset to the governance token.
func payment(cmd *cobra.Command, a *app.App, amount string) (sdk.Payment, error) {
	v, err := parseAmount(amount)
	if err != nil {
		return sdk.Payment{}, err
	}
	asset, _ := cmd.Flags().GetString("asset")
	if asset == "" {
		cfg, err := a.DAO.Config(cmd.Context())
		if err != nil {
			return sdk.Payment{}, err
		}
		asset = cfg.GovernanceToken.String()
	}
	return sdk.Payment{Asset: sdk.Asset(asset), Amount: v}, nil
}

// attach queues p as the deposit of the next operation.
func attach(a *app.App, p sdk.Payment) error {
	if p.IsZero() {
		return nil
	}
	if err := a.Ledger.Attach(a.Config.Caller, p); err != nil {
		return errors.Wrapf(err, "deposit %s %s", p.Amount.Dec(), p.Asset)
	}
	return nil
}

// parseCall reads a proposal action of the form
// target=<addr>,endpoint=<name>[,gas=<n>][,asset=<a>,amount=<n>][,args=0x..;0x..]
func parseCall(s string) (contract.Action, error) {
	var act contract.Action
	for _, field := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(field), "=")
		if !ok {
			return act, fmt.Errorf("malformed call field %q", field)
		}
		switch k {
		case "target":
			act.Target = sdk.Address(v)
		case "endpoint":
			act.Endpoint = v
		case "gas":
			gas, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return act, fmt.Errorf("invalid gas %q", v)
			}
			act.GasLimit = gas
		case "asset":
			act.PaymentAsset = sdk.Asset(v)
		case "amount":
			amt, err := parseAmount(v)
			if err != nil {
				return act, err
			}
			act.PaymentAmount = amt
		case "args":
			for _, raw := range strings.Split(v, ";") {
				if raw == "" {
					continue
				}
				b, err := hexutil.Decode(raw)
				if err != nil {
					return act, errors.Wrapf(err, "arg %q", raw)
				}
				act.Args = append(act.Args, b)
			}
		default:
			return act, fmt.Errorf("unknown call field %q", k)
		}
	}
	if act.Target == "" || act.Endpoint == "" {
		return act, fmt.Errorf("call %q needs target and endpoint", s)
	}
	return act, nil
}

// done prints a success line plus the events the operation emitted.
func done(cmd *cobra.Command, a *app.App, format string, args ...any) error {
	events := a.Events.Drain()
	if a.Config.JSON {
		return render.JSON(cmd.OutOrStdout(), map[string]any{
			"result": fmt.Sprintf(format, args...),
			"events": events,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf(format, args...)))
	faint := color.New(color.Faint)
	for _, ev := range events {
		fmt.Fprintln(cmd.OutOrStdout(), faint.Sprint("  "+ev))
	}
	return nil
}
