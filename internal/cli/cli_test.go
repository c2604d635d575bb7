package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"franchise_dao/contract"
)

const testGenesis = `
governance_token: hive
board:
  members: [hive:alice, hive:bob]
  quorum: 2
quorum: "2"
voting_period: 10
min_proposal_amount: "5"
tax_amount: "1"
voting_mode: quadratic
activate: true
balances:
  hive:carol:
    hive: "1000"
`

// daoctl runs one invocation against dataDir as caller and returns stdout.
func daoctl(t *testing.T, dataDir, caller string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	full := append([]string{"--data-dir", dataDir, "--store", "memory", "--json"}, args...)
	if caller != "" {
		full = append(full, "--caller", caller)
	}
	err := Execute(context.Background(), full, &out)
	return out.String(), err
}

func mustDaoctl(t *testing.T, dataDir, caller string, args ...string) string {
	t.Helper()
	out, err := daoctl(t, dataDir, caller, args...)
	require.NoError(t, err, "daoctl %v", args)
	return out
}

// TestCommandLineFlow checks the whole governance flow through daoctl so we dont break it again.
func TestCommandLineFlow(t *testing.T) {
	dir := t.TempDir()
	genesis := filepath.Join(dir, "genesis.yaml")
	require.NoError(t, os.WriteFile(genesis, []byte(testGenesis), 0o644))
	dataDir := filepath.Join(dir, "data")

	mustDaoctl(t, dataDir, "hive:owner", "init", "--genesis", genesis)
	out := mustDaoctl(t, dataDir, "", "state")
	assert.Contains(t, out, `"state": "active"`)
	assert.Contains(t, out, `"owner": "hive:owner"`)

	_, err := daoctl(t, dataDir, "hive:owner", "init", "--genesis", genesis)
	assert.True(t, errors.Is(err, contract.ErrAlreadyInitialized))

	out = mustDaoctl(t, dataDir, "hive:carol", "proposal", "create",
		"--title", "grant", "--deposit", "100",
		"--call", "target=contract:grantee,endpoint=receive,gas=1000,args=0x01;0xbeef")
	assert.Contains(t, out, "created proposal #0")

	out = mustDaoctl(t, dataDir, "hive:carol", "bank", "balance")
	assert.Contains(t, out, `"hive": "900"`)
	out = mustDaoctl(t, dataDir, "", "bank", "balance", "--custody")
	assert.Contains(t, out, `"hive": "100"`)

	out = mustDaoctl(t, dataDir, "", "proposal", "show", "0")
	assert.Contains(t, out, `"upvotes": "10"`)
	assert.Contains(t, out, `"endpoint": "receive"`)

	mustDaoctl(t, dataDir, "", "chain", "advance", "10")
	out = mustDaoctl(t, dataDir, "", "proposal", "status", "0")
	assert.Contains(t, out, `"status": "succeeded"`)

	_, err = daoctl(t, dataDir, "hive:carol", "proposal", "upvote", "0", "5")
	assert.True(t, errors.Is(err, contract.ErrNotInVotingWindow))
	out = mustDaoctl(t, dataDir, "hive:carol", "bank", "balance")
	assert.Contains(t, out, `"hive": "900"`, "rejected votes keep the deposit with the voter")

	mustDaoctl(t, dataDir, "hive:bob", "proposal", "execute", "0")
	out = mustDaoctl(t, dataDir, "", "chain", "outbox")
	assert.Contains(t, out, `"endpoint": "receive"`)
	assert.Contains(t, out, `"0xbeef"`)

	mustDaoctl(t, dataDir, "hive:carol", "proposal", "redeem", "0")
	out = mustDaoctl(t, dataDir, "hive:carol", "bank", "balance")
	assert.Contains(t, out, `"hive": "1000"`)

	out = mustDaoctl(t, dataDir, "", "proposal", "list", "--status", "executed")
	assert.Contains(t, out, `"total": 1`)
}

// TestCommandLineBoard checks board actions through daoctl.
func TestCommandLineBoard(t *testing.T) {
	dir := t.TempDir()
	genesis := filepath.Join(dir, "genesis.yaml")
	require.NoError(t, os.WriteFile(genesis, []byte(testGenesis), 0o644))
	dataDir := filepath.Join(dir, "data")
	mustDaoctl(t, dataDir, "hive:owner", "init", "--genesis", genesis)

	out := mustDaoctl(t, dataDir, "hive:alice", "board", "propose", "add-member", "hive:dave")
	assert.Contains(t, out, "opened board action #1")

	_, err := daoctl(t, dataDir, "hive:alice", "board", "perform", "1")
	assert.True(t, errors.Is(err, contract.ErrQuorumNotReached))

	mustDaoctl(t, dataDir, "hive:bob", "board", "sign", "1")
	out = mustDaoctl(t, dataDir, "", "board")
	assert.Contains(t, out, `"valid_signers": 2`)

	mustDaoctl(t, dataDir, "hive:bob", "board", "perform", "1")
	out = mustDaoctl(t, dataDir, "", "board", "members")
	assert.Contains(t, out, "hive:dave")

	out = mustDaoctl(t, dataDir, "", "board", "show", "1")
	assert.Contains(t, out, `"outcome": "executed"`)

	_, err = daoctl(t, dataDir, "hive:dave", "board", "propose", "add-token", "hbd", "2e18")
	require.NoError(t, err)
	_, err = daoctl(t, dataDir, "hive:carol", "board", "sign", "2")
	assert.True(t, errors.Is(err, contract.ErrUnauthorized))
}

func TestParseCall(t *testing.T) {
	act, err := parseCall("target=contract:x,endpoint=mint,gas=5,asset=hbd,amount=1e3,args=0x01;;0x0203")
	require.NoError(t, err)
	assert.Equal(t, "contract:x", act.Target.String())
	assert.Equal(t, uint64(5), act.GasLimit)
	assert.Equal(t, "1000", act.PaymentAmount.Dec())
	assert.Equal(t, [][]byte{{0x01}, {0x02, 0x03}}, act.Args)

	for _, bad := range []string{"endpoint=mint", "target=contract:x", "target=contract:x,endpoint=m,gas=x", "target", "target=contract:x,endpoint=m,color=red", "target=contract:x,endpoint=m,args=zz"} {
		_, err := parseCall(bad)
		assert.Error(t, err, bad)
	}
}
