package tracker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// CommandType identifies the kind of a ledger line.
type CommandType string

const (
	CmdPurchase CommandType = "purchase"
	CmdSettings CommandType = "settings"
)

// DecodeLedger reads a ledger from a stream of JSONL data. Each line is a JSON
// object with a "command" field: one "purchase" line per purchase and at most
// one "settings" line, the last one wins.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: could not identify command in %q: %w", line, string(lineBytes), err)
		}

		switch identifier.Command {
		case CmdPurchase:
			var p Purchase
			if err := json.Unmarshal(lineBytes, &p); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if _, err := ledger.Add(p); err != nil {
				return nil, fmt.Errorf("line %d: invalid purchase: %w", line, err)
			}
		case CmdSettings:
			var s Settings
			if err := json.Unmarshal(lineBytes, &s); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if err := ledger.SetSettings(s); err != nil {
				return nil, fmt.Errorf("line %d: invalid settings: %w", line, err)
			}
		default:
			return nil, fmt.Errorf("line %d: unknown ledger command: %q", line, identifier.Command)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return ledger, nil
}

// encodeLine writes one command line: the command first, then the fields of v.
func encodeLine(w io.Writer, cmd CommandType, v any) error {
	var obj jsonObjectWriter
	obj.Append("command", cmd)
	obj.EmbedFrom(v)
	b, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", cmd, err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd, err)
	}
	return nil
}

// EncodePurchase writes a single purchase line in JSONL format.
func EncodePurchase(w io.Writer, p Purchase) error {
	return encodeLine(w, CmdPurchase, p)
}

// EncodeLedger writes the ledger in JSONL format: the settings line first,
// then the purchases in chronological order so that the file reads as a journal.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	if err := encodeLine(w, CmdSettings, ledger.settings); err != nil {
		return err
	}
	for _, p := range ledger.chronological() {
		if err := EncodePurchase(w, p); err != nil {
			return err
		}
	}
	return nil
}
