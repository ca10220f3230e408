package inspect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

// Report summarizes one verification run.
type Report struct {
	// Checked is the number of documents read from the stream.
	Checked int
	// Failed is the number of documents that did not survive the
	// decode/re-encode round trip.
	Failed int
}

// OK reports whether every checked document round-tripped.
func (r Report) OK() bool {
	return r.Failed == 0
}

// Verify reads a stream of wire-mapping JSON documents from r and checks
// decode → re-encode fidelity for each: the re-encoded mapping must be
// semantically identical to the input. Mismatches and decode failures are
// reported to w and counted; the stream keeps going so one bad payload does
// not hide the rest.
func (i *Inspector) Verify(r io.Reader, w io.Writer) (Report, error) {
	var report Report

	err := i.eachMapping(r, func(pos int, m serialization.Mapping) error {
		report.Checked++
		if reason := i.check(m); reason != "" {
			report.Failed++
			fmt.Fprintf(w, "document %d: %s\n", pos, reason)
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	fmt.Fprintf(w, "%d checked, %d failed\n", report.Checked, report.Failed)
	return report, nil
}

// check round-trips one mapping and explains the failure, or returns ""
// when the document is faithful.
func (i *Inspector) check(m serialization.Mapping) string {
	v, err := i.registry.DecodeAny(m)
	if err != nil {
		return fmt.Sprintf("decode failed: %v", err)
	}

	encoded, err := i.registry.Encode(v)
	if err != nil {
		return fmt.Sprintf("re-encode failed: %v", err)
	}

	same, err := mappingsEquivalent(m, encoded)
	if err != nil {
		return fmt.Sprintf("comparison failed: %v", err)
	}
	if !same {
		return "re-encoded mapping differs from input"
	}
	return ""
}

// mappingsEquivalent compares two mappings through their canonical JSON
// forms with key order and nested document ordering ignored.
func mappingsEquivalent(a, b serialization.Mapping) (bool, error) {
	av, err := jsonShape(a)
	if err != nil {
		return false, err
	}
	bv, err := jsonShape(b)
	if err != nil {
		return false, err
	}
	return reflect.DeepEqual(av, bv), nil
}

func jsonShape(m serialization.Mapping) (any, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
