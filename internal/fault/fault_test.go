package fault

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(fmt.Errorf("plain")))
	assert.Equal(t, 77, ExitCode(Preconditionf(NotOnlineForSnapshot, "offline")))
}

func TestExitCodeThroughWrapping(t *testing.T) {
	err := errors.Wrap(Wrap(RestoreFailed, "Exclusive access could not be obtained", fmt.Errorf("driver")), "restoring CXSCORE")
	assert.Equal(t, 87, ExitCode(err))
	assert.True(t, IsKind(err, Database))
	assert.True(t, HasCode(err, RestoreFailed))
	assert.False(t, IsKind(err, Precondition))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Environment 'prod' Unknown", Configf(UnknownEnvironment, "Environment '%s' Unknown", "prod").Error())

	cause := fmt.Errorf("login failed")
	e := Wrap(SnapshotCreateFailed, "", cause)
	assert.Equal(t, "login failed", e.Error())
	assert.ErrorIs(t, e, cause)

	bare := &Error{Kind: Validation, Code: UnknownDatabase}
	assert.Equal(t, "validation failure (code 6)", bare.Error())
	assert.Equal(t, 6, bare.ExitCode())
}
