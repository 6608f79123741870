package ledger

import (
	"fmt"
	"strconv"
)

// ArgKind identifies the Move type of a pure argument.
type ArgKind uint8

const (
	ArgBytes ArgKind = iota + 1 // vector<u8>
	ArgAddress
	ArgString
	ArgU64
	ArgBool
)

func (k ArgKind) String() string {
	switch k {
	case ArgBytes:
		return "vector<u8>"
	case ArgAddress:
		return "address"
	case ArgString:
		return "string"
	case ArgU64:
		return "u64"
	case ArgBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Arg is a pure (non-object) Move call argument.
type Arg struct {
	Kind    ArgKind
	Bytes   []byte
	Address Address
	String  string
	U64     uint64
	Bool    bool
}

func PureBytes(b []byte) Arg { return Arg{Kind: ArgBytes, Bytes: b} }
func PureAddress(a Address) Arg { return Arg{Kind: ArgAddress, Address: a} }
func PureString(s string) Arg { return Arg{Kind: ArgString, String: s} }
func PureU64(v uint64) Arg { return Arg{Kind: ArgU64, U64: v} }
func PureBool(v bool) Arg { return Arg{Kind: ArgBool, Bool: v} }

// BCS returns the BCS serialization of the argument value.
func (a Arg) BCS() []byte {
	var e bcsEncoder
	switch a.Kind {
	case ArgBytes:
		e.bytes(a.Bytes)
	case ArgAddress:
		e.fixed(a.Address[:])
	case ArgString:
		e.str(a.String)
	case ArgU64:
		e.u64(a.U64)
	case ArgBool:
		e.boolean(a.Bool)
	}
	return e.Bytes()
}

// JSONValue renders the argument the way fullnode JSON-RPC builders expect
// it: byte vectors as number arrays and u64 as decimal strings.
func (a Arg) JSONValue() any {
	switch a.Kind {
	case ArgBytes:
		out := make([]int, len(a.Bytes))
		for i, b := range a.Bytes {
			out[i] = int(b)
		}
		return out
	case ArgAddress:
		return a.Address.String()
	case ArgString:
		return a.String
	case ArgU64:
		return strconv.FormatUint(a.U64, 10)
	case ArgBool:
		return a.Bool
	default:
		return nil
	}
}

// DecodePureBytes decodes the BCS form of a vector<u8> pure input.
func DecodePureBytes(b []byte) ([]byte, error) {
	d := bcsDecoder{b: b}
	out, err := d.bytes()
	if err != nil {
		return nil, err
	}
	if !d.done() {
		return nil, fmt.Errorf("%w: trailing bytes in vector<u8>", ErrBCS)
	}
	return out, nil
}

// MoveCall is a single call to a public entry function.
type MoveCall struct {
	Package  Address
	Module   string
	Function string
	Args     []Arg
}

// Target renders the call as package::module::function.
func (c MoveCall) Target() string {
	return c.Package.String() + "::" + c.Module + "::" + c.Function
}

// TransactionIntent is an unsigned, ordered list of Move calls that a wallet
// signs and submits as one transaction. The ledger executes the calls
// atomically.
type TransactionIntent struct {
	Calls []MoveCall
}

// KindBytes encodes the intent as a BCS TransactionKind::ProgrammableTransaction.
// Every argument becomes its own pure input.
func (t TransactionIntent) KindBytes() ([]byte, error) {
	var inputs [][]byte
	var e bcsEncoder

	// commands are encoded into a separate buffer because inputs come first
	var cmds bcsEncoder
	cmds.uleb128(uint64(len(t.Calls)))
	for _, c := range t.Calls {
		cmds.uleb128(commandMoveCall)
		cmds.fixed(c.Package[:])
		cmds.str(c.Module)
		cmds.str(c.Function)
		cmds.uleb128(0) // type arguments
		cmds.uleb128(uint64(len(c.Args)))
		for _, a := range c.Args {
			if len(inputs) > 0xffff {
				return nil, fmt.Errorf("%w: too many inputs", ErrBCS)
			}
			cmds.uleb128(argumentInput)
			cmds.u16(uint16(len(inputs)))
			inputs = append(inputs, a.BCS())
		}
	}

	e.uleb128(kindProgrammable)
	e.uleb128(uint64(len(inputs)))
	for _, in := range inputs {
		e.uleb128(callArgPure)
		e.bytes(in)
	}
	e.fixed(cmds.Bytes())
	return e.Bytes(), nil
}

const (
	kindProgrammable = 0
	callArgPure      = 0
	commandMoveCall  = 0
	argumentInput    = 1
)

// ParsedCall is a Move call decoded from transaction kind bytes. Arguments
// hold indices into the transaction's pure inputs.
type ParsedCall struct {
	Package   Address
	Module    string
	Function  string
	Arguments []uint16
}

// ProgrammableTransaction is the decoded form of KindBytes output.
type ProgrammableTransaction struct {
	Inputs [][]byte
	Calls  []ParsedCall
}

// Input returns the pure input referenced by a call argument.
func (p *ProgrammableTransaction) Input(idx uint16) ([]byte, error) {
	if int(idx) >= len(p.Inputs) {
		return nil, fmt.Errorf("%w: input %d out of range", ErrBCS, idx)
	}
	return p.Inputs[idx], nil
}

// ParseTransactionKind decodes programmable transaction kind bytes. Only pure
// inputs, Move calls without type arguments and input arguments are
// supported; anything else is rejected.
func ParseTransactionKind(b []byte) (*ProgrammableTransaction, error) {
	d := bcsDecoder{b: b}

	kind, err := d.uleb128()
	if err != nil {
		return nil, err
	}
	if kind != kindProgrammable {
		return nil, fmt.Errorf("%w: unsupported transaction kind %d", ErrBCS, kind)
	}

	p := &ProgrammableTransaction{}

	n, err := d.length()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		tag, err := d.uleb128()
		if err != nil {
			return nil, err
		}
		if tag != callArgPure {
			return nil, fmt.Errorf("%w: unsupported call arg %d", ErrBCS, tag)
		}
		in, err := d.bytes()
		if err != nil {
			return nil, err
		}
		p.Inputs = append(p.Inputs, in)
	}

	n, err = d.length()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		call, err := parseMoveCall(&d)
		if err != nil {
			return nil, err
		}
		p.Calls = append(p.Calls, call)
	}

	if !d.done() {
		return nil, fmt.Errorf("%w: trailing bytes", ErrBCS)
	}
	return p, nil
}

func parseMoveCall(d *bcsDecoder) (ParsedCall, error) {
	var c ParsedCall

	tag, err := d.uleb128()
	if err != nil {
		return c, err
	}
	if tag != commandMoveCall {
		return c, fmt.Errorf("%w: unsupported command %d", ErrBCS, tag)
	}

	pkg, err := d.fixed(AddressLength)
	if err != nil {
		return c, err
	}
	copy(c.Package[:], pkg)

	if c.Module, err = d.str(); err != nil {
		return c, err
	}
	if c.Function, err = d.str(); err != nil {
		return c, err
	}

	typeArgs, err := d.length()
	if err != nil {
		return c, err
	}
	if typeArgs != 0 {
		return c, fmt.Errorf("%w: type arguments are not supported", ErrBCS)
	}

	n, err := d.length()
	if err != nil {
		return c, err
	}
	for i := 0; i < n; i++ {
		argTag, err := d.uleb128()
		if err != nil {
			return c, err
		}
		if argTag != argumentInput {
			return c, fmt.Errorf("%w: unsupported argument %d", ErrBCS, argTag)
		}
		idx, err := d.u16()
		if err != nil {
			return c, err
		}
		c.Arguments = append(c.Arguments, idx)
	}
	return c, nil
}
