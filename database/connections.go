package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/KazanKK/dbss/internal/fault"
	"go.uber.org/zap"
)

const (
	CurrentSessionQuery = "SELECT @@SPID AS spid;"
	AllSessionsQuery    = "SELECT spid FROM master.dbo.sysprocesses;"

	// Session ids up to this value belong to server internals.
	ReservedSessionCeiling = 50
)

// Reaper kills every other client session on the server so that a restore
// is not blocked by open handles.
//
// This is best effort only. A client side connection pool may reconnect
// immediately, so automation must not rely on the server staying free of
// sessions afterwards.
type Reaper struct {
	Gateway Gateway
	Logger  *zap.Logger
}

func NewReaper(g Gateway, l *zap.Logger) *Reaper {
	if l == nil {
		l = zap.NewNop()
	}
	return &Reaper{Gateway: g, Logger: l}
}

// KillConnections returns the session ids it asked the server to kill.
func (r *Reaper) KillConnections(ctx context.Context) ([]int64, error) {
	var killed []int64
	err := r.Gateway.Session(ctx, fault.ConnectionKillFailed, func(s Session) error {
		own, err := s.Query(ctx, CurrentSessionQuery)
		if err != nil {
			return err
		}
		var self int64 = -1
		for _, row := range own {
			if self, err = rowInt(row, "spid"); err != nil {
				return err
			}
		}

		all, err := s.Query(ctx, AllSessionsQuery)
		if err != nil {
			return err
		}
		for _, row := range all {
			spid, err := rowInt(row, "spid")
			if err != nil {
				return err
			}
			if spid > ReservedSessionCeiling && spid != self {
				killed = append(killed, spid)
			}
		}

		if len(killed) == 0 {
			return nil
		}
		r.Logger.Sugar().Debugw("Killing sessions", "own", self, "sessions", killed)
		return s.Execute(ctx, KillStatement(killed))
	})
	if err != nil {
		return nil, err
	}
	return killed, nil
}

func KillStatement(spids []int64) string {
	var sb strings.Builder
	for _, spid := range spids {
		sb.WriteString(fmt.Sprintf("kill %d;", spid))
	}
	return sb.String()
}
