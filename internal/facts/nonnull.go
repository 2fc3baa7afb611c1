package facts

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultNonNullMessage is used when a null-check policy sets no message.
const DefaultNonNullMessage = "Null argument found"

// Operation selects what a generated null guard does when it trips.
type Operation string

const (
	OpNoOp     Operation = "no_op"
	OpThrow    Operation = "throw"
	OpPrintErr Operation = "print_err"
	OpPrintOut Operation = "print_out"
	OpLog      Operation = "log"
)

var operations = map[string]Operation{
	"no_op":     OpNoOp,
	"noop":      OpNoOp,
	"throw":     OpThrow,
	"throw_exc": OpThrow,
	"print_err": OpPrintErr,
	"stderr":    OpPrintErr,
	"print_out": OpPrintOut,
	"stdout":    OpPrintOut,
	"log":       OpLog,
	"log_exc":   OpLog,
}

// UnmarshalText accepts the canonical names and their aliases,
// case-insensitively.
func (o *Operation) UnmarshalText(text []byte) error {
	op, ok := operations[strings.ToLower(strings.TrimSpace(string(text)))]
	if !ok {
		return fmt.Errorf("unknown null-check operation %q", string(text))
	}
	*o = op
	return nil
}

func (o *Operation) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return o.UnmarshalText([]byte(s))
}

// NonNull is a null-check policy attached to a building block.
type NonNull struct {
	Message   string    `json:"message,omitempty" yaml:"message,omitempty"`
	Operation Operation `json:"operation,omitempty" yaml:"operation,omitempty"`
}

func (n *NonNull) applyDefaults() {
	if n.Message == "" {
		n.Message = DefaultNonNullMessage
	}
	if n.Operation == "" {
		n.Operation = OpThrow
	}
}
