package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"smartgrid_simulator/internal/model"
)

var applianceColumns = []string{"name", "power_kw", "duration_h", "start_hour", "flexible"}

// ApplianceParser parses appliance schedules from CSV.
//
// Expected format, with an optional leading id column:
//
//	id,name,power_kw,duration_h,start_hour,flexible
//	wm,Wasmachine,2.0,2,10,true
//
// Rows without an id get a random UUID. Blank lines are skipped.
type ApplianceParser struct {
	// NewID generates ids for rows without one.
	NewID func() string
}

func NewApplianceParser() *ApplianceParser {
	return &ApplianceParser{NewID: uuid.NewString}
}

func (p *ApplianceParser) Parse(r io.Reader) ([]model.Appliance, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	// Read header
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	hasID, err := validateApplianceHeader(header)
	if err != nil {
		return nil, err
	}

	var appliances []model.Appliance
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)

		a, err := p.parseRecord(record, hasID, line)
		if err != nil {
			return nil, err
		}
		appliances = append(appliances, a)
	}

	return appliances, nil
}

func validateApplianceHeader(header []string) (hasID bool, err error) {
	cols := make([]string, len(header))
	for i, c := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(c))
	}
	if len(cols) > 0 && cols[0] == "id" {
		hasID = true
		cols = cols[1:]
	}

	if len(cols) != len(applianceColumns) {
		return false, fmt.Errorf("expected %d columns after optional id, got %d", len(applianceColumns), len(cols))
	}
	for i, col := range applianceColumns {
		if cols[i] != col {
			return false, fmt.Errorf("expected column %d to be %q, got %q", i, col, cols[i])
		}
	}

	return hasID, nil
}

func (p *ApplianceParser) parseRecord(record []string, hasID bool, lineNum int) (model.Appliance, error) {
	want := len(applianceColumns)
	if hasID {
		want++
	}
	if len(record) != want {
		return model.Appliance{}, fmt.Errorf("line %d: expected %d fields, got %d", lineNum, want, len(record))
	}

	var id string
	if hasID {
		id = strings.TrimSpace(record[0])
		record = record[1:]
	}
	if id == "" && p.NewID != nil {
		id = p.NewID()
	}

	name := strings.TrimSpace(record[0])
	if name == "" {
		return model.Appliance{}, fmt.Errorf("line %d: empty name", lineNum)
	}

	power, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil {
		return model.Appliance{}, fmt.Errorf("line %d: parsing power %q: %w", lineNum, record[1], err)
	}

	duration, err := strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil {
		return model.Appliance{}, fmt.Errorf("line %d: parsing duration %q: %w", lineNum, record[2], err)
	}

	start, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil {
		return model.Appliance{}, fmt.Errorf("line %d: parsing start hour %q: %w", lineNum, record[3], err)
	}

	flexible, err := parseFlag(record[4])
	if err != nil {
		return model.Appliance{}, fmt.Errorf("line %d: parsing flexible %q: %w", lineNum, record[4], err)
	}

	return model.NewAppliance(id, name, power, duration, start, flexible), nil
}

// parseFlag accepts strconv.ParseBool values plus yes/no.
func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return true, nil
	case "no", "n", "":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}
