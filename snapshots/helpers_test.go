package snapshot

import (
	"bytes"

	"github.com/KazanKK/dbss/internal/config"
	"github.com/KazanKK/dbss/internal/dbtest"
	"github.com/KazanKK/dbss/internal/ux"
	"github.com/fatih/color"
)

func newFakeServer() *dbtest.Server {
	return dbtest.NewServer()
}

func testEnv(databases ...string) *config.EnvironmentConfig {
	return &config.EnvironmentConfig{
		Name:            "test",
		Server:          "db_test_01",
		Databases:       databases,
		SnapshotSuffix:  "_dbss",
		SnapshotFileTag: "ss",
	}
}

func newTestManager(server *dbtest.Server, databases ...string) (*Manager, *bytes.Buffer) {
	color.NoColor = true
	out := &bytes.Buffer{}
	ui := ux.NewUserLog(out, &bytes.Buffer{}, false)
	return NewManager(testEnv(databases...), server, ui, nil), out
}
