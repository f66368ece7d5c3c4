package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/KazanKK/dbss/internal/fault"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const DatabasesQuery = "SELECT name, state_desc FROM sys.databases;"

func DataFilesQuery(database string) string {
	return fmt.Sprintf("USE %s; SELECT name, physical_name FROM sys.database_files WHERE type_desc<>'LOG';", database)
}

// Survey answers read-only catalog questions. Nothing is cached: every call
// queries the server again.
type Survey struct {
	Gateway Gateway
}

func NewSurvey(g Gateway) *Survey {
	return &Survey{Gateway: g}
}

// Databases maps every database name to its state_desc, in server order.
func (s *Survey) Databases(ctx context.Context) (*orderedmap.OrderedMap[string, string], error) {
	rows, err := s.Gateway.Query(ctx, DatabasesQuery, fault.DatabaseSurveyFailed)
	if err != nil {
		return nil, err
	}
	om := orderedmap.New[string, string]()
	for _, r := range rows {
		om.Set(rowString(r, "name"), rowString(r, "state_desc"))
	}
	return om, nil
}

// Records returns the database survey sorted by name.
func (s *Survey) Records(ctx context.Context) ([]*DatabaseRecord, error) {
	om, err := s.Databases(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]*DatabaseRecord, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		records = append(records, &DatabaseRecord{Name: pair.Key, Status: pair.Value})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records, nil
}

func (s *Survey) DataFiles(ctx context.Context, database string) ([]DataFileRecord, error) {
	rows, err := s.Gateway.Query(ctx, DataFilesQuery(database), fault.DataFileSurveyFailed)
	if err != nil {
		return nil, err
	}
	files := make([]DataFileRecord, 0, len(rows))
	for _, r := range rows {
		files = append(files, DataFileRecord{
			LogicalName:  rowString(r, "name"),
			PhysicalPath: rowString(r, "physical_name"),
		})
	}
	return files, nil
}

func (s *Survey) Exists(ctx context.Context, name string) (bool, error) {
	om, err := s.Databases(ctx)
	if err != nil {
		return false, err
	}
	_, ok := om.Get(name)
	return ok, nil
}

// Status returns the state_desc of name and whether it exists at all.
func (s *Survey) Status(ctx context.Context, name string) (string, bool, error) {
	om, err := s.Databases(ctx)
	if err != nil {
		return "", false, err
	}
	status, ok := om.Get(name)
	return status, ok, nil
}
