package config

import (
	"os"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"franchise_dao/contract"
	"franchise_dao/sdk"
)

// Genesis is the YAML document daoctl init reads.
type Genesis struct {
	GovernanceToken   string         `yaml:"governance_token"`
	Board             GenesisBoard   `yaml:"board"`
	Quorum            string         `yaml:"quorum"`
	VotingPeriod      uint64         `yaml:"voting_period"`
	MinProposalAmount string         `yaml:"min_proposal_amount"`
	TaxAmount         string         `yaml:"tax_amount"`
	VotingMode        string         `yaml:"voting_mode"`
	ProposalGate      string         `yaml:"proposal_gate"`
	VotingTokens      []GenesisToken `yaml:"voting_tokens"`
	Activate          bool           `yaml:"activate"`
	// Balances pre-funds ledger accounts: address -> asset -> amount.
	Balances map[string]map[string]string `yaml:"balances"`
}

type GenesisBoard struct {
	Members []string `yaml:"members"`
	Quorum  uint64   `yaml:"quorum"`
}

type GenesisToken struct {
	Asset  string `yaml:"asset"`
	Weight string `yaml:"weight"`
}

// LoadGenesis reads and parses a genesis file.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	var g Genesis
	if err := yaml.Unmarshal(raw, &g); err != nil {
		return nil, errors.Wrapf(err, "parse genesis %s", path)
	}
	return &g, nil
}

// InitArgs converts the document into contract init arguments.
func (g *Genesis) InitArgs() (contract.InitArgs, error) {
	var args contract.InitArgs
	var err error

	args.GovernanceToken = sdk.Asset(g.GovernanceToken)
	args.BoardQuorum = g.Board.Quorum
	args.VotingPeriod = g.VotingPeriod
	for _, m := range g.Board.Members {
		args.BoardMembers = append(args.BoardMembers, sdk.Address(m))
	}
	if args.Quorum, err = ParseAmount(g.Quorum); err != nil {
		return args, errors.Wrap(err, "quorum")
	}
	if args.MinProposalAmount, err = ParseAmount(g.MinProposalAmount); err != nil {
		return args, errors.Wrap(err, "min_proposal_amount")
	}
	if args.TaxAmount, err = ParseAmount(g.TaxAmount); err != nil {
		return args, errors.Wrap(err, "tax_amount")
	}
	mode, ok := contract.ParseVotingMode(g.VotingMode)
	if !ok {
		return args, errors.Errorf("unknown voting_mode %q", g.VotingMode)
	}
	args.VotingMode = mode
	gate, ok := contract.ParseProposalGate(g.ProposalGate)
	if !ok {
		return args, errors.Errorf("unknown proposal_gate %q", g.ProposalGate)
	}
	args.ProposalGate = gate
	for _, t := range g.VotingTokens {
		w, err := ParseAmount(t.Weight)
		if err != nil {
			return args, errors.Wrapf(err, "weight of %s", t.Asset)
		}
		args.VotingTokens = append(args.VotingTokens, contract.VotingToken{Asset: sdk.Asset(t.Asset), Weight: w})
	}
	return args, nil
}

// ParseAmount accepts decimal, 0x-prefixed hex, or a decimal followed by a
// "e<N>" exponent such as 5e18. Empty means zero.
func ParseAmount(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", ""))
	switch {
	case s == "":
		return new(uint256.Int), nil
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		digits := strings.TrimLeft(s[2:], "0")
		if digits == "" {
			digits = "0"
		}
		return uint256.FromHex("0x" + digits)
	}
	if base, exp, ok := strings.Cut(strings.ToLower(s), "e"); ok {
		if base == "" || exp == "" {
			return nil, errors.Errorf("malformed amount %q", s)
		}
		b, err := uint256.FromDecimal(base)
		if err != nil {
			return nil, err
		}
		e, err := uint256.FromDecimal(exp)
		if err != nil {
			return nil, err
		}
		scale := new(uint256.Int).Exp(uint256.NewInt(10), e)
		out, overflow := new(uint256.Int).MulOverflow(b, scale)
		if overflow || e.GtUint64(77) {
			return nil, errors.Errorf("amount %s overflows 256 bits", s)
		}
		return out, nil
	}
	return uint256.FromDecimal(s)
}
