package contract

import "franchise_dao/sdk"

const (
	// kConfig stores the encoded Config record.
	kConfig byte = 0x01
	// kBoardMembers stores the sorted board member list.
	kBoardMembers byte = 0x02
	// kVotingTokens stores the voting token ledger (asset -> weight).
	kVotingTokens byte = 0x03
	// kProposalMeta contains encoded Proposal records.
	kProposalMeta byte = 0x10
	// kProposalVoters lists the voters holding escrow on a proposal.
	kProposalVoters byte = 0x11
	// kVoterProposals lists the proposals a voter holds escrow on.
	kVoterProposals byte = 0x12
	// kEscrow holds per voter, per proposal escrow lines.
	kEscrow byte = 0x13
	// kBoardAction holds the payload of an open board action.
	kBoardAction byte = 0x20
	// kActionSigners holds the raw signer set of an open board action.
	kActionSigners byte = 0x21
	// kActionOutcome records how a board action slot was closed.
	kActionOutcome byte = 0x22
)

// packU64LEInline sprinkles a uint64 into dst in little-endian order so our keys stay compact.
func packU64LEInline(x uint64, dst []byte) {
	dst[0] = byte(x)
	dst[1] = byte(x >> 8)
	dst[2] = byte(x >> 16)
	dst[3] = byte(x >> 24)
	dst[4] = byte(x >> 32)
	dst[5] = byte(x >> 40)
	dst[6] = byte(x >> 48)
	dst[7] = byte(x >> 56)
}

// packU64LE appends the encoded number to dst and returns the new slice.
func packU64LE(x uint64, dst []byte) []byte {
	var b [8]byte
	packU64LEInline(x, b[:])
	return append(dst, b[:]...)
}

func singletonKey(prefix byte) string { return string([]byte{prefix}) }

func idKey(prefix byte, id uint64) string {
	var buf [9]byte
	buf[0] = prefix
	packU64LEInline(id, buf[1:])
	return string(buf[:])
}

func configKey() string       { return singletonKey(kConfig) }
func boardMembersKey() string { return singletonKey(kBoardMembers) }
func votingTokensKey() string { return singletonKey(kVotingTokens) }

func proposalKey(id uint64) string       { return idKey(kProposalMeta, id) }
func proposalVotersKey(id uint64) string { return idKey(kProposalVoters, id) }
func boardActionKey(id uint64) string    { return idKey(kBoardAction, id) }
func actionSignersKey(id uint64) string  { return idKey(kActionSigners, id) }
func actionOutcomeKey(id uint64) string  { return idKey(kActionOutcome, id) }

func voterProposalsKey(voter sdk.Address) string {
	buf := make([]byte, 0, 1+len(voter))
	buf = append(buf, kVoterProposals)
	buf = append(buf, voter...)
	return string(buf)
}

// escrowKey mixes proposal id plus voter bytes to avoid nested maps in host storage.
func escrowKey(id uint64, voter sdk.Address) string {
	buf := make([]byte, 0, 1+8+len(voter))
	buf = append(buf, kEscrow)
	buf = packU64LE(id, buf)
	buf = append(buf, voter...)
	return string(buf)
}
