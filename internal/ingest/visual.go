package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/harborguide/internal/domain"
)

// ErrInvalidUpload is returned for an upload without a report id or visuals.
var ErrInvalidUpload = errors.New("reportId and visuals[] required")

// Visual is one exported report visual. Data arrives either as CSV text or
// as a JSON array of row objects.
type Visual struct {
	PageName   string          `json:"pageName"`
	VisualName string          `json:"visualName"`
	CSV        string          `json:"csv,omitempty"`
	Rows       json.RawMessage `json:"rows,omitempty"`
}

// Upload is the payload posted by the report host.
type Upload struct {
	ReportID    string   `json:"reportId"`
	WorkspaceID string   `json:"workspaceId,omitempty"`
	Visuals     []Visual `json:"visuals"`
}

func (u Upload) Validate() error {
	if strings.TrimSpace(u.ReportID) == "" || u.Visuals == nil {
		return ErrInvalidUpload
	}
	return nil
}

// Block converts the visual into a visual block named "<page> / <visual>".
func (v Visual) Block() (domain.TabularBlock, error) {
	name := domain.VisualName(v.PageName, v.VisualName)

	switch {
	case strings.TrimSpace(v.CSV) != "":
		b, err := ParseCSV(domain.BlockVisual, name, strings.NewReader(v.CSV))
		if errors.Is(err, ErrNoHeader) {
			return domain.NewTabularBlock(domain.BlockVisual, name, nil, nil), nil
		}
		return b, err
	case len(v.Rows) > 0 && string(v.Rows) != "null":
		header, records, err := DecodeRecords(v.Rows)
		if err != nil {
			return domain.TabularBlock{}, fmt.Errorf("visual %s: %w", name, err)
		}
		return domain.NewTabularBlock(domain.BlockVisual, name, header, records), nil
	default:
		return domain.NewTabularBlock(domain.BlockVisual, name, nil, nil), nil
	}
}

// Snapshot validates the upload and converts every visual. The snapshot's
// CapturedAt is left for the cache to stamp.
func (u Upload) Snapshot() (*domain.Snapshot, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	snap := &domain.Snapshot{
		SourceKey: u.ReportID,
		Workspace: u.WorkspaceID,
		Blocks:    make([]domain.TabularBlock, 0, len(u.Visuals)),
	}
	for i, v := range u.Visuals {
		b, err := v.Block()
		if err != nil {
			return nil, fmt.Errorf("visual %d: %w", i+1, err)
		}
		snap.Blocks = append(snap.Blocks, b)
	}
	return snap, nil
}
