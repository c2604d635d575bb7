package contract

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"franchise_dao/sdk"
)

func (s *stagedState) loadConfig() (*Config, error) {
	ptr, err := s.get(configKey())
	if err != nil {
		return nil, err
	}
	if ptr == nil {
		return nil, reject(ErrNotInitialized, "")
	}
	cfg, err := decodeConfig([]byte(*ptr))
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptState, "%v", err)
	}
	return cfg, nil
}

func (s *stagedState) saveConfig(cfg *Config) {
	s.set(configKey(), string(encodeConfig(cfg)))
}

func (s *stagedState) initialized() (bool, error) {
	ptr, err := s.get(configKey())
	return ptr != nil, err
}

// -----------------------------------------------------------------------------
// Membership registry
// -----------------------------------------------------------------------------

func (s *stagedState) loadAddressList(key string) ([]sdk.Address, error) {
	ptr, err := s.get(key)
	if err != nil || ptr == nil {
		return nil, err
	}
	list, err := decodeAddressList([]byte(*ptr))
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptState, "address list: %v", err)
	}
	return list, nil
}

// saveAddressList drops the key once the set runs empty.
func (s *stagedState) saveAddressList(key string, list []sdk.Address) {
	if len(list) == 0 {
		s.del(key)
		return
	}
	s.set(key, string(encodeAddressList(list)))
}

func (s *stagedState) boardMembers() ([]sdk.Address, error) {
	return s.loadAddressList(boardMembersKey())
}

func (s *stagedState) isBoardMember(a sdk.Address) (bool, error) {
	members, err := s.boardMembers()
	if err != nil {
		return false, err
	}
	return lo.Contains(members, a.Canonical()), nil
}

func (s *stagedState) saveBoardMembers(members []sdk.Address) {
	s.saveAddressList(boardMembersKey(), members)
}

// -----------------------------------------------------------------------------
// Voting token ledger
// -----------------------------------------------------------------------------

func (s *stagedState) votingTokens() ([]VotingToken, error) {
	ptr, err := s.get(votingTokensKey())
	if err != nil || ptr == nil {
		return nil, err
	}
	tokens, err := decodeVotingTokens([]byte(*ptr))
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptState, "voting tokens: %v", err)
	}
	return tokens, nil
}

func (s *stagedState) saveVotingTokens(tokens []VotingToken) {
	if len(tokens) == 0 {
		s.del(votingTokensKey())
		return
	}
	s.set(votingTokensKey(), string(encodeVotingTokens(tokens)))
}

// tokenWeight returns the ledger weight of asset, or nil when it is not listed.
func (s *stagedState) tokenWeight(asset sdk.Asset) (*uint256.Int, error) {
	tokens, err := s.votingTokens()
	if err != nil {
		return nil, err
	}
	t, ok := lo.Find(tokens, func(t VotingToken) bool { return t.Asset == asset })
	if !ok {
		return nil, nil
	}
	return t.Weight, nil
}
