package contract

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"franchise_dao/sdk"
)

func (s *stagedState) loadBoardAction(id uint64) (BoardAction, error) {
	ptr, err := s.get(boardActionKey(id))
	if err != nil {
		return nil, err
	}
	if ptr == nil {
		return nil, reject(ErrNotFound, "board action %d", id)
	}
	a, err := decodeBoardAction([]byte(*ptr))
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptState, "board action %d: %v", id, err)
	}
	return a, nil
}

func (s *stagedState) saveBoardAction(id uint64, a BoardAction) {
	s.set(boardActionKey(id), string(encodeBoardAction(a)))
}

func (s *stagedState) actionSigners(id uint64) ([]sdk.Address, error) {
	return s.loadAddressList(actionSignersKey(id))
}

func (s *stagedState) saveActionSigners(id uint64, signers []sdk.Address) {
	s.saveAddressList(actionSignersKey(id), signers)
}

// clearAction empties the action slot and its signer set.
func (s *stagedState) clearAction(id uint64) {
	s.del(boardActionKey(id))
	s.del(actionSignersKey(id))
}

// validSignerCount is |signers ∩ board members|, recomputed on every call.
func (s *stagedState) validSignerCount(id uint64) (uint64, error) {
	signers, err := s.actionSigners(id)
	if err != nil {
		return 0, err
	}
	members, err := s.boardMembers()
	if err != nil {
		return 0, err
	}
	return uint64(len(lo.Intersect(signers, members))), nil
}

func (s *stagedState) saveOutcome(o *ActionOutcome) {
	s.set(actionOutcomeKey(o.ID), string(encodeOutcome(o)))
}

func (s *stagedState) loadOutcome(id uint64) (*ActionOutcome, error) {
	ptr, err := s.get(actionOutcomeKey(id))
	if err != nil {
		return nil, err
	}
	if ptr == nil {
		return nil, reject(ErrNotFound, "no outcome for board action %d", id)
	}
	o, err := decodeOutcome([]byte(*ptr))
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptState, "outcome %d: %v", id, err)
	}
	return o, nil
}
