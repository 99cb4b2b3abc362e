package ingest

import (
	"io"

	"smartgrid_simulator/internal/model"
)

// Parser reads an appliance list from a source.
type Parser interface {
	Parse(r io.Reader) ([]model.Appliance, error)
}
