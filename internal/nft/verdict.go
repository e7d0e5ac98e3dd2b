package nft

import (
	"strings"

	"github.com/google/nftables/expr"
)

// VerdictKind identifies the variant of a Verdict.
type VerdictKind uint8

// Possible VerdictKind values.
const (
	VerdictAccept VerdictKind = iota + 1
	VerdictDrop
	VerdictQueue
	VerdictContinue
	VerdictReturn
	VerdictJump
	VerdictGoto
)

var verdictNames = map[VerdictKind]string{
	VerdictAccept:   "accept",
	VerdictDrop:     "drop",
	VerdictQueue:    "queue",
	VerdictContinue: "continue",
	VerdictReturn:   "return",
	VerdictJump:     "jump",
	VerdictGoto:     "goto",
}

// AllVerdictKinds returns every VerdictKind in declaration order.
func AllVerdictKinds() []VerdictKind {
	return []VerdictKind{VerdictAccept, VerdictDrop, VerdictQueue, VerdictContinue, VerdictReturn, VerdictJump, VerdictGoto}
}

// String returns the nft keyword of the kind.
func (k VerdictKind) String() string {
	if name, ok := verdictNames[k]; ok {
		return name
	}
	return "verdict(" + itoa(int64(k)) + ")"
}

// Verdict is the outcome a rule produces for a packet. Only jump and goto
// carry a target chain.
type Verdict struct {
	kind   VerdictKind
	target string
}

// Payload-free verdicts.
var (
	Accept   = Verdict{kind: VerdictAccept}
	Drop     = Verdict{kind: VerdictDrop}
	Queue    = Verdict{kind: VerdictQueue}
	Continue = Verdict{kind: VerdictContinue}
	Return   = Verdict{kind: VerdictReturn}
)

// Jump returns a verdict that continues in chain target and comes back.
func Jump(target string) Verdict {
	return Verdict{kind: VerdictJump, target: target}
}

// Goto returns a verdict that continues in chain target without returning.
func Goto(target string) Verdict {
	return Verdict{kind: VerdictGoto, target: target}
}

// Kind returns the variant of v.
func (v Verdict) Kind() VerdictKind { return v.kind }

// Target returns the target chain of a jump or goto, and false otherwise.
func (v Verdict) Target() (string, bool) {
	if v.kind == VerdictJump || v.kind == VerdictGoto {
		return v.target, true
	}
	return "", false
}

// String renders v the way nft prints it, e.g. "jump inbound".
func (v Verdict) String() string {
	if target, ok := v.Target(); ok {
		return v.kind.String() + " " + target
	}
	return v.kind.String()
}

// ParseVerdict parses an nft verdict statement. Jump and goto require exactly
// one target chain name.
func ParseVerdict(text string) (Verdict, error) {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return Verdict{}, invalidInput("verdict", text)
	}
	for _, k := range AllVerdictKinds() {
		if verdictNames[k] != fields[0] {
			continue
		}
		if k == VerdictJump || k == VerdictGoto {
			if len(fields) != 2 {
				return Verdict{}, invalidInput("verdict", text)
			}
			// Chain names are case sensitive; take the target from the input.
			return Verdict{kind: k, target: strings.Fields(text)[1]}, nil
		}
		if len(fields) != 1 {
			return Verdict{}, invalidInput("verdict", text)
		}
		return Verdict{kind: k}, nil
	}
	return Verdict{}, invalidInput("verdict", text)
}

// VerdictFromExpr maps a netlink verdict expression back to a Verdict.
// Kernel-internal verdicts (break, stolen, repeat, stop) are unrecognized.
func VerdictFromExpr(e *expr.Verdict) (Verdict, error) {
	switch e.Kind {
	case expr.VerdictAccept:
		return Accept, nil
	case expr.VerdictDrop:
		return Drop, nil
	case expr.VerdictQueue:
		return Queue, nil
	case expr.VerdictContinue:
		return Continue, nil
	case expr.VerdictReturn:
		return Return, nil
	case expr.VerdictJump:
		return Jump(e.Chain), nil
	case expr.VerdictGoto:
		return Goto(e.Chain), nil
	}
	return Verdict{}, unrecognizedValue("verdict", itoa(int64(e.Kind)))
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	if _, ok := verdictNames[v.kind]; !ok {
		return nil, unrecognizedValue("verdict", itoa(int64(v.kind)))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Verdict) UnmarshalText(text []byte) error {
	parsed, err := ParseVerdict(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
