package contract

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"franchise_dao/sdk"
)

var errUnexpectedEOF = errors.New("unexpected EOF")

type binWriter struct {
	buf bytes.Buffer
}

// newWriter spins up a fresh writer so we dont leak old bytes between encodes.
func newWriter() *binWriter { return &binWriter{} }

func (w *binWriter) bytes() []byte { return w.buf.Bytes() }

func (w *binWriter) writeByte(b byte) { w.buf.WriteByte(b) }

func (w *binWriter) writeBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// writeUint64 writes big endian numbers so tooling can read them without guessing.
func (w *binWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// writeVarUint uses varints to keep counts and lens compact.
func (w *binWriter) writeVarUint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

// writeAmount stores a 256-bit amount as 32 big endian bytes, nil as zero.
func (w *binWriter) writeAmount(v *uint256.Int) {
	if v == nil {
		v = new(uint256.Int)
	}
	b := v.Bytes32()
	w.buf.Write(b[:])
}

func (w *binWriter) writeBytes(b []byte) {
	w.writeVarUint(uint64(len(b)))
	w.buf.Write(b)
}

func (w *binWriter) writeString(s string) {
	w.writeVarUint(uint64(len(s)))
	w.buf.WriteString(s)
}

func (w *binWriter) writeAddress(a sdk.Address) { w.writeString(a.String()) }

func (w *binWriter) writeAsset(a sdk.Asset) { w.writeString(a.String()) }

// ------------------------------------------------------------------
// Record encoders
// ------------------------------------------------------------------

func encodeConfig(cfg *Config) []byte {
	w := newWriter()
	w.writeByte(byte(cfg.State))
	w.writeAddress(cfg.Owner)
	w.writeAsset(cfg.GovernanceToken)
	w.writeAmount(cfg.Quorum)
	w.writeUint64(cfg.VotingPeriod)
	w.writeAmount(cfg.MinProposalAmount)
	w.writeAmount(cfg.TaxAmount)
	w.writeUint64(cfg.BoardQuorum)
	w.writeByte(byte(cfg.VotingMode))
	w.writeByte(byte(cfg.ProposalGate))
	return w.bytes()
}

func encodeAction(w *binWriter, a *Action) {
	w.writeUint64(a.GasLimit)
	w.writeAddress(a.Target)
	w.writeAsset(a.PaymentAsset)
	w.writeAmount(a.PaymentAmount)
	w.writeString(a.Endpoint)
	w.writeVarUint(uint64(len(a.Args)))
	for _, arg := range a.Args {
		w.writeBytes(arg)
	}
}

// encodeProposal writes the stored facts only; status is never persisted.
func encodeProposal(p *Proposal) []byte {
	w := newWriter()
	w.writeUint64(p.ID)
	w.writeAddress(p.Proposer)
	w.writeUint64(p.CreationBlock)
	w.writeString(p.Title)
	w.writeString(p.Description)
	actions := ActionsOf(p.Payload)
	w.writeVarUint(uint64(len(actions)))
	for i := range actions {
		encodeAction(w, &actions[i])
	}
	w.writeAmount(p.Upvotes)
	w.writeAmount(p.Downvotes)
	w.writeBool(p.WasExecuted)
	return w.bytes()
}

// encodeAddressList sorts before writing so equal sets encode to equal bytes.
func encodeAddressList(list []sdk.Address) []byte {
	sorted := append([]sdk.Address(nil), list...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	w := newWriter()
	w.writeVarUint(uint64(len(sorted)))
	for _, a := range sorted {
		w.writeAddress(a)
	}
	return w.bytes()
}

func encodeIDList(ids []uint64) []byte {
	sorted := append([]uint64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	w := newWriter()
	w.writeVarUint(uint64(len(sorted)))
	for _, id := range sorted {
		w.writeUint64(id)
	}
	return w.bytes()
}

// encodePayments keeps insertion order; escrow lines are merged per asset before this.
func encodePayments(lines []sdk.Payment) []byte {
	w := newWriter()
	w.writeVarUint(uint64(len(lines)))
	for _, l := range lines {
		w.writeAsset(l.Asset)
		w.writeAmount(l.Amount)
	}
	return w.bytes()
}

func encodeVotingTokens(tokens []VotingToken) []byte {
	sorted := append([]VotingToken(nil), tokens...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Asset < sorted[j].Asset })
	w := newWriter()
	w.writeVarUint(uint64(len(sorted)))
	for _, t := range sorted {
		w.writeAsset(t.Asset)
		w.writeAmount(t.Weight)
	}
	return w.bytes()
}

func encodeOutcome(o *ActionOutcome) []byte {
	w := newWriter()
	w.writeUint64(o.ID)
	w.writeString(o.Kind)
	w.writeByte(byte(o.Outcome))
	w.writeAddress(o.ClosedBy)
	w.writeUint64(o.Height)
	return w.bytes()
}

// board action tags, one per variant. Never renumber.
const (
	tagNothing            byte = 0
	tagAddBoardMember     byte = 1
	tagRemoveBoardMember  byte = 2
	tagChangeBoardQuorum  byte = 3
	tagChangeQuorum       byte = 4
	tagChangeVotingPeriod byte = 5
	tagAddVotingToken     byte = 6
	tagRemoveVotingToken  byte = 7
	tagChangeTaxAmount    byte = 8
)

// boardActionEncoder writes the tag followed by the variant fields.
type boardActionEncoder struct{ w *binWriter }

func (e boardActionEncoder) visitNothing(Nothing) error {
	e.w.writeByte(tagNothing)
	return nil
}

func (e boardActionEncoder) visitAddBoardMember(a AddBoardMember) error {
	e.w.writeByte(tagAddBoardMember)
	e.w.writeAddress(a.Member)
	return nil
}

func (e boardActionEncoder) visitRemoveBoardMember(a RemoveBoardMember) error {
	e.w.writeByte(tagRemoveBoardMember)
	e.w.writeAddress(a.Member)
	return nil
}

func (e boardActionEncoder) visitChangeBoardQuorum(a ChangeBoardQuorum) error {
	e.w.writeByte(tagChangeBoardQuorum)
	e.w.writeUint64(a.Quorum)
	return nil
}

func (e boardActionEncoder) visitChangeQuorum(a ChangeQuorum) error {
	e.w.writeByte(tagChangeQuorum)
	e.w.writeAmount(a.Quorum)
	return nil
}

func (e boardActionEncoder) visitChangeVotingPeriod(a ChangeVotingPeriod) error {
	e.w.writeByte(tagChangeVotingPeriod)
	e.w.writeUint64(a.Period)
	return nil
}

func (e boardActionEncoder) visitAddVotingToken(a AddVotingToken) error {
	e.w.writeByte(tagAddVotingToken)
	e.w.writeAsset(a.Token)
	e.w.writeAmount(a.Weight)
	return nil
}

func (e boardActionEncoder) visitRemoveVotingToken(a RemoveVotingToken) error {
	e.w.writeByte(tagRemoveVotingToken)
	e.w.writeAsset(a.Token)
	return nil
}

func (e boardActionEncoder) visitChangeTaxAmount(a ChangeTaxAmount) error {
	e.w.writeByte(tagChangeTaxAmount)
	e.w.writeAmount(a.Amount)
	return nil
}

func encodeBoardAction(a BoardAction) []byte {
	w := newWriter()
	_ = a.accept(boardActionEncoder{w: w})
	return w.bytes()
}

// ------------------------------------------------------------------
// Decoder helpers
// ------------------------------------------------------------------

type binReader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *binReader {
	return &binReader{data: data}
}

func (r *binReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errUnexpectedEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *binReader) readBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

func (r *binReader) readUint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errUnexpectedEOF
	}
	val := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return val, nil
}

func (r *binReader) readVarUint() (uint64, error) {
	val, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, errors.New("invalid varuint")
	}
	r.pos += n
	return val, nil
}

func (r *binReader) readAmount() (*uint256.Int, error) {
	if r.pos+32 > len(r.data) {
		return nil, errUnexpectedEOF
	}
	v := new(uint256.Int).SetBytes32(r.data[r.pos : r.pos+32])
	r.pos += 32
	return v, nil
}

func (r *binReader) readBytes() ([]byte, error) {
	l, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	if uint64(len(r.data)-r.pos) < l {
		return nil, errUnexpectedEOF
	}
	b := append([]byte(nil), r.data[r.pos:r.pos+int(l)]...)
	r.pos += int(l)
	return b, nil
}

func (r *binReader) readString() (string, error) {
	b, err := r.readBytes()
	return string(b), err
}

func (r *binReader) readAddress() (sdk.Address, error) {
	s, err := r.readString()
	return sdk.Address(s), err
}

func (r *binReader) readAsset() (sdk.Asset, error) {
	s, err := r.readString()
	return sdk.Asset(s), err
}

// readCount reads a list length and rejects lengths the remaining bytes cannot hold.
func (r *binReader) readCount(minItemSize int) (int, error) {
	n, err := r.readVarUint()
	if err != nil {
		return 0, err
	}
	if minItemSize > 0 && n > uint64((len(r.data)-r.pos)/minItemSize) {
		return 0, errUnexpectedEOF
	}
	return int(n), nil
}

// ------------------------------------------------------------------
// Record decoders
// ------------------------------------------------------------------

func decodeConfig(data []byte) (*Config, error) {
	r := newReader(data)
	cfg := &Config{}
	var err error
	var b byte
	if b, err = r.readByte(); err != nil {
		return nil, errors.Wrap(err, "config state")
	}
	cfg.State = State(b)
	if cfg.Owner, err = r.readAddress(); err != nil {
		return nil, errors.Wrap(err, "config owner")
	}
	if cfg.GovernanceToken, err = r.readAsset(); err != nil {
		return nil, errors.Wrap(err, "config governance token")
	}
	if cfg.Quorum, err = r.readAmount(); err != nil {
		return nil, errors.Wrap(err, "config quorum")
	}
	if cfg.VotingPeriod, err = r.readUint64(); err != nil {
		return nil, errors.Wrap(err, "config voting period")
	}
	if cfg.MinProposalAmount, err = r.readAmount(); err != nil {
		return nil, errors.Wrap(err, "config min proposal amount")
	}
	if cfg.TaxAmount, err = r.readAmount(); err != nil {
		return nil, errors.Wrap(err, "config tax amount")
	}
	if cfg.BoardQuorum, err = r.readUint64(); err != nil {
		return nil, errors.Wrap(err, "config board quorum")
	}
	if b, err = r.readByte(); err != nil {
		return nil, errors.Wrap(err, "config voting mode")
	}
	cfg.VotingMode = VotingMode(b)
	if b, err = r.readByte(); err != nil {
		return nil, errors.Wrap(err, "config proposal gate")
	}
	cfg.ProposalGate = ProposalGate(b)
	return cfg, nil
}

func decodeAction(r *binReader) (Action, error) {
	var a Action
	var err error
	if a.GasLimit, err = r.readUint64(); err != nil {
		return a, err
	}
	if a.Target, err = r.readAddress(); err != nil {
		return a, err
	}
	if a.PaymentAsset, err = r.readAsset(); err != nil {
		return a, err
	}
	if a.PaymentAmount, err = r.readAmount(); err != nil {
		return a, err
	}
	if a.Endpoint, err = r.readString(); err != nil {
		return a, err
	}
	n, err := r.readCount(1)
	if err != nil {
		return a, err
	}
	a.Args = make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		arg, err := r.readBytes()
		if err != nil {
			return a, err
		}
		a.Args = append(a.Args, arg)
	}
	return a, nil
}

func decodeProposal(data []byte) (*Proposal, error) {
	r := newReader(data)
	p := &Proposal{}
	var err error
	if p.ID, err = r.readUint64(); err != nil {
		return nil, errors.Wrap(err, "proposal id")
	}
	if p.Proposer, err = r.readAddress(); err != nil {
		return nil, errors.Wrap(err, "proposal proposer")
	}
	if p.CreationBlock, err = r.readUint64(); err != nil {
		return nil, errors.Wrap(err, "proposal creation block")
	}
	if p.Title, err = r.readString(); err != nil {
		return nil, errors.Wrap(err, "proposal title")
	}
	if p.Description, err = r.readString(); err != nil {
		return nil, errors.Wrap(err, "proposal description")
	}
	n, err := r.readCount(1)
	if err != nil {
		return nil, errors.Wrap(err, "proposal actions")
	}
	actions := make([]Action, 0, n)
	for i := 0; i < n; i++ {
		a, err := decodeAction(r)
		if err != nil {
			return nil, errors.Wrapf(err, "proposal action %d", i)
		}
		actions = append(actions, a)
	}
	p.Payload = payloadFromActions(actions)
	if p.Upvotes, err = r.readAmount(); err != nil {
		return nil, errors.Wrap(err, "proposal upvotes")
	}
	if p.Downvotes, err = r.readAmount(); err != nil {
		return nil, errors.Wrap(err, "proposal downvotes")
	}
	if p.WasExecuted, err = r.readBool(); err != nil {
		return nil, errors.Wrap(err, "proposal executed flag")
	}
	return p, nil
}

func decodeAddressList(data []byte) ([]sdk.Address, error) {
	r := newReader(data)
	n, err := r.readCount(1)
	if err != nil {
		return nil, err
	}
	out := make([]sdk.Address, 0, n)
	for i := 0; i < n; i++ {
		a, err := r.readAddress()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func decodeIDList(data []byte) ([]uint64, error) {
	r := newReader(data)
	n, err := r.readCount(8)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		id, err := r.readUint64()
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func decodePayments(data []byte) ([]sdk.Payment, error) {
	r := newReader(data)
	n, err := r.readCount(33)
	if err != nil {
		return nil, err
	}
	out := make([]sdk.Payment, 0, n)
	for i := 0; i < n; i++ {
		var p sdk.Payment
		if p.Asset, err = r.readAsset(); err != nil {
			return nil, err
		}
		if p.Amount, err = r.readAmount(); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func decodeVotingTokens(data []byte) ([]VotingToken, error) {
	r := newReader(data)
	n, err := r.readCount(33)
	if err != nil {
		return nil, err
	}
	out := make([]VotingToken, 0, n)
	for i := 0; i < n; i++ {
		var t VotingToken
		if t.Asset, err = r.readAsset(); err != nil {
			return nil, err
		}
		if t.Weight, err = r.readAmount(); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func decodeOutcome(data []byte) (*ActionOutcome, error) {
	r := newReader(data)
	o := &ActionOutcome{}
	var err error
	var b byte
	if o.ID, err = r.readUint64(); err != nil {
		return nil, err
	}
	if o.Kind, err = r.readString(); err != nil {
		return nil, err
	}
	if b, err = r.readByte(); err != nil {
		return nil, err
	}
	o.Outcome = ActionOutcomeKind(b)
	if o.ClosedBy, err = r.readAddress(); err != nil {
		return nil, err
	}
	if o.Height, err = r.readUint64(); err != nil {
		return nil, err
	}
	return o, nil
}

func decodeBoardAction(data []byte) (BoardAction, error) {
	r := newReader(data)
	tag, err := r.readByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagNothing:
		return Nothing{}, nil
	case tagAddBoardMember:
		m, err := r.readAddress()
		return AddBoardMember{Member: m}, err
	case tagRemoveBoardMember:
		m, err := r.readAddress()
		return RemoveBoardMember{Member: m}, err
	case tagChangeBoardQuorum:
		q, err := r.readUint64()
		return ChangeBoardQuorum{Quorum: q}, err
	case tagChangeQuorum:
		q, err := r.readAmount()
		return ChangeQuorum{Quorum: q}, err
	case tagChangeVotingPeriod:
		p, err := r.readUint64()
		return ChangeVotingPeriod{Period: p}, err
	case tagAddVotingToken:
		t, err := r.readAsset()
		if err != nil {
			return nil, err
		}
		w, err := r.readAmount()
		return AddVotingToken{Token: t, Weight: w}, err
	case tagRemoveVotingToken:
		t, err := r.readAsset()
		return RemoveVotingToken{Token: t}, err
	case tagChangeTaxAmount:
		a, err := r.readAmount()
		return ChangeTaxAmount{Amount: a}, err
	}
	return nil, errors.Errorf("unknown board action tag %d", tag)
}
