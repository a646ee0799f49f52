package monitor

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// ErrInvalidBeacon is returned when a beacon is not valid JSON or does not
// match the beacon schema.
var ErrInvalidBeacon = errors.New("invalid navigation beacon")

//go:embed beacon.schema.json
var beaconSchema []byte

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func beaconValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("beacon.schema.json", bytes.NewReader(beaconSchema)); err != nil {
			compileErr = fmt.Errorf("invalid schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("beacon.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("invalid schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Beacon is a TimingSource built from a navigation timing entry posted by a
// browser.
type Beacon struct {
	navigation    NavigationTiming
	hasNavigation bool
	memory        uint64
	hasMemory     bool
}

// ParseBeacon validates data against the beacon schema and extracts the
// timing fields. Navigation timing is present when both requestStart and
// responseStart are; missing load event fields read as zero. Memory is
// present when memory.usedJSHeapSize is.
func ParseBeacon(data []byte) (*Beacon, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBeacon, err)
	}

	schema, err := beaconValidator()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBeacon, err)
	}

	result := gjson.ParseBytes(data)
	b := &Beacon{}

	if result.Get("requestStart").Exists() && result.Get("responseStart").Exists() {
		b.hasNavigation = true
		b.navigation = NavigationTiming{
			RequestStart:   result.Get("requestStart").Float(),
			ResponseStart:  result.Get("responseStart").Float(),
			LoadEventStart: result.Get("loadEventStart").Float(),
			LoadEventEnd:   result.Get("loadEventEnd").Float(),
		}
	}

	if used := result.Get("memory.usedJSHeapSize"); used.Exists() {
		b.hasMemory = true
		b.memory = used.Uint()
	}

	return b, nil
}

// NavigationTiming implements TimingSource.
func (b *Beacon) NavigationTiming() (NavigationTiming, bool) {
	return b.navigation, b.hasNavigation
}

// MemoryUsage implements TimingSource.
func (b *Beacon) MemoryUsage() (uint64, bool) {
	return b.memory, b.hasMemory
}
