package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ltc-mds-engine/internal/domain"
)

// Format is a snapshot file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension; anything that is
// not .json is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// SnapshotParser turns wire snapshots into typed assessments.
type SnapshotParser struct {
	logger *logrus.Logger
}

// NewSnapshotParser creates a parser.
func NewSnapshotParser(logger *logrus.Logger) *SnapshotParser {
	return &SnapshotParser{logger: logger}
}

// DecodeRaw reads one or more wire snapshots. JSON input may be a single
// object or an array; YAML input may hold several documents.
func (p *SnapshotParser) DecodeRaw(data []byte, format Format) ([]domain.RawSnapshot, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}
}

func decodeJSON(data []byte) ([]domain.RawSnapshot, error) {
	trimmed := bytes.TrimSpace(data)
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []domain.RawSnapshot
		if err := dec.Decode(&many); err != nil {
			return nil, fmt.Errorf("decoding snapshots: %w", err)
		}
		return many, nil
	}
	var one domain.RawSnapshot
	if err := dec.Decode(&one); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return []domain.RawSnapshot{one}, nil
}

func decodeYAML(data []byte) ([]domain.RawSnapshot, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var out []domain.RawSnapshot
	for {
		var raw domain.RawSnapshot
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding snapshot %d: %w", len(out)+1, err)
		}
		out = append(out, raw)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("decoding snapshot: no documents")
	}
	return out, nil
}

// Parse decodes exactly one snapshot and validates every field against its
// code domain.
func (p *SnapshotParser) Parse(data []byte, format Format) (*domain.Assessment, error) {
	raws, err := p.DecodeRaw(data, format)
	if err != nil {
		return nil, err
	}
	if len(raws) != 1 {
		return nil, fmt.Errorf("expected one snapshot, found %d", len(raws))
	}
	return p.Build(&raws[0])
}

// Build validates a wire snapshot.
func (p *SnapshotParser) Build(raw *domain.RawSnapshot) (*domain.Assessment, error) {
	a, err := domain.DecodeSnapshot(raw)
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"assessment_id": raw.AssessmentID,
			"error":         err.Error(),
		}).Warn("Rejected assessment snapshot")
		return nil, fmt.Errorf("parsing assessment %s: %w", raw.AssessmentID, err)
	}

	p.logger.WithFields(logrus.Fields{
		"assessment_id": a.ID,
		"resident_id":   a.ResidentID,
		"fingerprint":   a.Fingerprint()[:12],
	}).Debug("Parsed assessment snapshot")
	return a, nil
}

// ReadFile reads the wire snapshots stored in a file.
func (p *SnapshotParser) ReadFile(path string) ([]domain.RawSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	raws, err := p.DecodeRaw(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raws, nil
}

// ParseFile reads and validates a file holding exactly one snapshot.
func (p *SnapshotParser) ParseFile(path string) (*domain.Assessment, error) {
	raws, err := p.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raws) != 1 {
		return nil, fmt.Errorf("%s: expected one snapshot, found %d", path, len(raws))
	}
	return p.Build(&raws[0])
}
