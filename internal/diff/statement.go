package diff

import "fmt"

// Statement is an ordered list of SQL statements, each independently executable
type Statement []string

// Mode selects how statement text is quoted
type Mode string

const (
	// ModeExecutable renders statements ready to run against the database
	ModeExecutable Mode = "executable"
	// ModeEmbedded doubles every double quote so the text can be spliced into
	// a verbatim string literal of generated source code
	ModeEmbedded Mode = "embedded"
)

// ParseMode validates a mode name; empty selects ModeExecutable
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeExecutable:
		return ModeExecutable, nil
	case ModeEmbedded:
		return ModeEmbedded, nil
	default:
		return "", fmt.Errorf("unknown render mode %q (want %q or %q)", s, ModeExecutable, ModeEmbedded)
	}
}

// Quoter returns the quoting strategy of the mode
func (m Mode) Quoter() Quoter {
	if m == ModeEmbedded {
		return EmbeddedQuoter()
	}
	return ExecutableQuoter()
}

// Options controls statement generation
type Options struct {
	Mode Mode
	// StrictAggregates turns malformed aggregate specs into errors instead of
	// skipping them.
	StrictAggregates bool
	// DisableLicenseGuard emits compression and chunk skipping DDL without the
	// license check block.
	DisableLicenseGuard bool
}
