package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"franchise_dao/contract"
	"franchise_dao/sdk"
	"franchise_dao/storage"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"":        "0",
		"42":      "42",
		"1_000":   "1000",
		"0x0":     "0",
		"0x000ff": "255",
		"5e18":    "5000000000000000000",
		"12E2":    "1200",
		" 7 ":     "7",
		"0X10":    "16",
		"1e0":     "1",
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.Dec(), in)
	}

	for _, bad := range []string{"-1", "abc", "1e", "1e78", "0xzz", "1.5"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, bad)
	}
}

const genesisYAML = `
governance_token: hive
board:
  members: [hive:alice, hive:bob]
  quorum: 2
quorum: "2e18"
voting_period: 100
min_proposal_amount: "1000"
tax_amount: "10"
voting_mode: quadratic
proposal_gate: deposit
voting_tokens:
  - asset: hive
    weight: "1e18"
  - asset: hbd
    weight: "0x1bc16d674ec80000"
activate: true
balances:
  hive:alice:
    hive: "5000"
`

func TestLoadGenesis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(genesisYAML), 0o644))

	g, err := LoadGenesis(path)
	require.NoError(t, err)
	assert.True(t, g.Activate)
	assert.Equal(t, "5000", g.Balances["hive:alice"]["hive"])

	args, err := g.InitArgs()
	require.NoError(t, err)
	assert.Equal(t, sdk.AssetHive, args.GovernanceToken)
	assert.Equal(t, []sdk.Address{"hive:alice", "hive:bob"}, args.BoardMembers)
	assert.Equal(t, uint64(2), args.BoardQuorum)
	assert.Equal(t, "2000000000000000000", args.Quorum.Dec())
	assert.Equal(t, contract.VotingQuadratic, args.VotingMode)
	assert.Equal(t, contract.GateDeposit, args.ProposalGate)
	require.Len(t, args.VotingTokens, 2)
	assert.Equal(t, contract.ONE, args.VotingTokens[0].Weight)
	assert.Equal(t, "2000000000000000000", args.VotingTokens[1].Weight.Dec())

	g.VotingMode = "ranked"
	_, err = g.InitArgs()
	assert.Error(t, err)

	_, err = LoadGenesis(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestProvider(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	v := SetupViper(dir)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("store", "", "")
	flags.String("caller", "", "")
	flags.Uint64("height", 0, "")
	flags.Bool("json", false, "")
	require.NoError(t, flags.Parse([]string{
		"--store", "bolt",
		"--caller", "did:pkh:eip155:1:0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		"--height", "12",
	}))
	BindFlags(v, flags)

	cfg, err := Provider(v)
	require.NoError(t, err)
	assert.Equal(t, storage.KindBolt, cfg.Store)
	assert.Equal(t, filepath.Join(dir, "state.bolt"), cfg.StorePath())
	assert.Equal(t, sdk.Address("did:pkh:eip155:1:0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"), cfg.Caller)
	assert.Equal(t, uint64(12), cfg.Height)
	assert.False(t, cfg.JSON, "unchanged flags keep defaults")
	assert.Equal(t, 256, cfg.CacheSize)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.DirExists(t, dir)
}

func TestProviderRejects(t *testing.T) {
	v := viper.New()
	v.Set("data_dir", t.TempDir())
	v.Set("store", "redis")
	_, err := Provider(v)
	assert.Error(t, err)

	v.Set("store", "memory")
	v.Set("caller", "nobody")
	_, err = Provider(v)
	assert.Error(t, err)
}

func TestProviderFromEnv(t *testing.T) {
	t.Setenv("DAO_STORE", "memory")
	t.Setenv("DAO_CALLER", "hive:alice")
	cfg, err := Provider(SetupViper(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, storage.KindMemory, cfg.Store)
	assert.Equal(t, sdk.Address("hive:alice"), cfg.Caller)
}
