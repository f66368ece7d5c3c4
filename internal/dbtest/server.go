package dbtest

import (
	"context"
	"fmt"
	"strings"

	db "github.com/KazanKK/dbss/database"
	"github.com/KazanKK/dbss/internal/fault"
)

// Server is an in-memory catalog implementing db.Gateway. It understands the
// CREATE ... AS SNAPSHOT, DROP DATABASE and catalog queries the tool issues
// and records everything it is sent.
type Server struct {
	Names    []string
	Status   map[string]string
	Files    map[string][]db.DataFileRecord
	Executed []string
	Queries  []string

	// ExecErr fails any statement starting with the key.
	ExecErr      map[string]error
	IgnoreDrop   bool
	IgnoreCreate bool
}

func NewServer() *Server {
	return &Server{
		Status:  map[string]string{},
		Files:   map[string][]db.DataFileRecord{},
		ExecErr: map[string]error{},
	}
}

// Add registers a database with one data file under D:\DATA.
func (s *Server) Add(name, status string) *Server {
	if _, ok := s.Status[name]; !ok {
		s.Names = append(s.Names, name)
	}
	s.Status[name] = status
	if _, ok := s.Files[name]; !ok {
		s.Files[name] = []db.DataFileRecord{
			{LogicalName: name + "_Data", PhysicalPath: `D:\DATA\` + name + ".mdf"},
		}
	}
	return s
}

func (s *Server) Remove(name string) {
	delete(s.Status, name)
	for i, n := range s.Names {
		if n == name {
			s.Names = append(s.Names[:i], s.Names[i+1:]...)
			return
		}
	}
}

func (s *Server) Has(name string) bool {
	_, ok := s.Status[name]
	return ok
}

func (s *Server) ExecutedWithPrefix(prefix string) []string {
	var out []string
	for _, stmt := range s.Executed {
		if strings.HasPrefix(stmt, prefix) {
			out = append(out, stmt)
		}
	}
	return out
}

func (s *Server) Execute(ctx context.Context, stmt string, code fault.Code) error {
	s.Executed = append(s.Executed, stmt)
	for prefix, err := range s.ExecErr {
		if strings.HasPrefix(stmt, prefix) {
			return fault.Wrap(code, db.Diagnostic(err), err)
		}
	}

	fields := strings.Fields(strings.TrimSuffix(stmt, ";"))
	isDDL := strings.HasPrefix(stmt, "DROP DATABASE") || strings.HasPrefix(stmt, "CREATE DATABASE")
	if isDDL && len(fields) < 3 {
		return fault.Wrap(code, "Incorrect syntax near ';'", fmt.Errorf("malformed statement %q", stmt))
	}
	switch {
	case strings.HasPrefix(stmt, "DROP DATABASE "):
		if !s.IgnoreDrop {
			s.Remove(fields[2])
		}
	case strings.HasPrefix(stmt, "CREATE DATABASE "):
		if !s.IgnoreCreate {
			s.Add(fields[2], db.StatusOnline)
		}
	}
	return nil
}

func (s *Server) Query(ctx context.Context, stmt string, code fault.Code) ([]db.Row, error) {
	s.Queries = append(s.Queries, stmt)
	switch {
	case stmt == db.DatabasesQuery:
		rows := make([]db.Row, 0, len(s.Names))
		for _, n := range s.Names {
			rows = append(rows, db.Row{"name": n, "state_desc": s.Status[n]})
		}
		return rows, nil
	case strings.HasPrefix(stmt, "USE ") && strings.Contains(stmt, ";"):
		name := strings.TrimPrefix(stmt[:strings.Index(stmt, ";")], "USE ")
		var rows []db.Row
		for _, file := range s.Files[name] {
			rows = append(rows, db.Row{"name": file.LogicalName, "physical_name": file.PhysicalPath})
		}
		return rows, nil
	case stmt == db.CurrentSessionQuery:
		return []db.Row{{"spid": int64(60)}}, nil
	case stmt == db.AllSessionsQuery:
		return []db.Row{{"spid": int64(12)}, {"spid": int64(60)}, {"spid": int64(61)}}, nil
	}
	return nil, fault.Wrap(code, "unexpected query", fmt.Errorf("unexpected query %q", stmt))
}

func (s *Server) Session(ctx context.Context, code fault.Code, fn func(db.Session) error) error {
	return fn(session{s: s, code: code})
}

type session struct {
	s    *Server
	code fault.Code
}

func (ss session) Execute(ctx context.Context, stmt string) error {
	return ss.s.Execute(ctx, stmt, ss.code)
}

func (ss session) Query(ctx context.Context, stmt string) ([]db.Row, error) {
	return ss.s.Query(ctx, stmt, ss.code)
}
