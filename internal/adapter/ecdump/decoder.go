// Package ecdump reads the JSON element dumps an ecCodes-based companion
// decoder exports: one document per BUFR input file, carrying each message's
// section 1 header and, per subset, the fully expanded element stream in
// report order.
package ecdump

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/obskit/bufr2geojson/internal/bufr"
)

// Dump is the document layout of one element dump. The exported shape is
// used to compose fixtures; decoding goes through rawDump so a malformed
// message does not take the rest of the document down with it.
type Dump struct {
	Source   string        `json:"source,omitempty"`
	Messages []MessageDump `json:"messages"`
}

// MessageDump is one BUFR message as exported by the companion decoder.
type MessageDump struct {
	Header  bufr.Header  `json:"header"`
	Subsets []SubsetDump `json:"subsets"`
}

// SubsetDump is one subset's flat element stream.
type SubsetDump struct {
	Elements []ElementDump `json:"elements"`
}

// ElementDump is one expanded element. Value and Text are mutually
// exclusive; a dump entry with neither encodes a missing value.
type ElementDump struct {
	Code  string   `json:"code"`
	Key   string   `json:"key"`
	Value *float64 `json:"value,omitempty"`
	Text  string   `json:"text,omitempty"`
	Units string   `json:"units,omitempty"`
	Scale int      `json:"scale,omitempty"`
}

type rawDump struct {
	Messages []json.RawMessage `json:"messages"`
}

// Decoder converts element dumps into decoded messages. It implements
// bufr.Decoder and holds no state, so one instance serves every run.
type Decoder struct{}

func NewDecoder() *Decoder { return &Decoder{} }

// Decode reads one dump document. A message that fails to parse is reported
// in Batch.Errors as a *bufr.DecodeError and the remaining messages still
// decode; a non-nil error means the document itself was unreadable.
func (d *Decoder) Decode(ctx context.Context, r io.Reader) (*bufr.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	var dump rawDump
	if err := json.Unmarshal(raw, &dump); err != nil {
		return nil, fmt.Errorf("parse dump: %w", err)
	}

	batch := &bufr.Batch{}
	for i, rawMsg := range dump.Messages {
		msg, err := decodeMessage(i, rawMsg)
		if err != nil {
			batch.Errors = append(batch.Errors, &bufr.DecodeError{MessageIndex: i, Err: err})
			continue
		}
		batch.Messages = append(batch.Messages, msg)
	}
	return batch, nil
}

func decodeMessage(index int, raw json.RawMessage) (bufr.Message, error) {
	var md MessageDump
	if err := json.Unmarshal(raw, &md); err != nil {
		return bufr.Message{}, err
	}
	if len(md.Subsets) == 0 {
		return bufr.Message{}, errors.New("message carries no subsets")
	}

	msg := bufr.Message{Index: index, Header: md.Header}
	for si, sd := range md.Subsets {
		sub := bufr.Subset{Index: si, Elements: make([]bufr.Element, 0, len(sd.Elements))}
		for _, ed := range sd.Elements {
			el, err := decodeElement(ed)
			if err != nil {
				return bufr.Message{}, fmt.Errorf("subset %d: %w", si, err)
			}
			sub.Elements = append(sub.Elements, el)
		}
		msg.Subsets = append(msg.Subsets, sub)
	}
	return msg, nil
}

func decodeElement(ed ElementDump) (bufr.Element, error) {
	code, err := bufr.ParseDescriptor(ed.Code)
	if err != nil {
		return bufr.Element{}, err
	}
	if ed.Value != nil && ed.Text != "" {
		return bufr.Element{}, fmt.Errorf("element %s carries both numeric and character data", ed.Code)
	}
	return bufr.Element{
		Code:  code,
		Key:   bufr.NormalizeKey(ed.Key),
		Value: ed.Value,
		Text:  ed.Text,
		Units: ed.Units,
		Scale: ed.Scale,
	}, nil
}
