package contract

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"franchise_dao/sdk"
)

func (s *stagedState) loadProposal(id uint64) (*Proposal, error) {
	ptr, err := s.get(proposalKey(id))
	if err != nil {
		return nil, err
	}
	if ptr == nil {
		return nil, reject(ErrNotFound, "proposal %d", id)
	}
	p, err := decodeProposal([]byte(*ptr))
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptState, "proposal %d: %v", id, err)
	}
	return p, nil
}

func (s *stagedState) saveProposal(p *Proposal) {
	s.set(proposalKey(p.ID), string(encodeProposal(p)))
}

// -----------------------------------------------------------------------------
// Escrow and voter <-> proposal indices
// -----------------------------------------------------------------------------

func (s *stagedState) loadEscrow(id uint64, voter sdk.Address) ([]sdk.Payment, error) {
	ptr, err := s.get(escrowKey(id, voter))
	if err != nil || ptr == nil {
		return nil, err
	}
	lines, err := decodePayments([]byte(*ptr))
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptState, "escrow %d/%s: %v", id, voter, err)
	}
	return lines, nil
}

func (s *stagedState) saveEscrow(id uint64, voter sdk.Address, lines []sdk.Payment) {
	if len(lines) == 0 {
		s.del(escrowKey(id, voter))
		return
	}
	s.set(escrowKey(id, voter), string(encodePayments(lines)))
}

func (s *stagedState) proposalVoters(id uint64) ([]sdk.Address, error) {
	return s.loadAddressList(proposalVotersKey(id))
}

func (s *stagedState) voterProposals(voter sdk.Address) ([]uint64, error) {
	ptr, err := s.get(voterProposalsKey(voter))
	if err != nil || ptr == nil {
		return nil, err
	}
	ids, err := decodeIDList([]byte(*ptr))
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptState, "voter proposals %s: %v", voter, err)
	}
	return ids, nil
}

// indexVote records voter on both sides of the voter <-> proposal index.
func (s *stagedState) indexVote(id uint64, voter sdk.Address) error {
	voters, err := s.proposalVoters(id)
	if err != nil {
		return err
	}
	if !lo.Contains(voters, voter) {
		s.saveAddressList(proposalVotersKey(id), append(voters, voter))
	}
	ids, err := s.voterProposals(voter)
	if err != nil {
		return err
	}
	if !lo.Contains(ids, id) {
		s.set(voterProposalsKey(voter), string(encodeIDList(append(ids, id))))
	}
	return nil
}

// unindexVote removes voter from both sides of the index.
func (s *stagedState) unindexVote(id uint64, voter sdk.Address) error {
	voters, err := s.proposalVoters(id)
	if err != nil {
		return err
	}
	s.saveAddressList(proposalVotersKey(id), lo.Without(voters, voter))
	ids, err := s.voterProposals(voter)
	if err != nil {
		return err
	}
	if rest := lo.Without(ids, id); len(rest) > 0 {
		s.set(voterProposalsKey(voter), string(encodeIDList(rest)))
	} else {
		s.del(voterProposalsKey(voter))
	}
	return nil
}
