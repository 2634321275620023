package robot

import (
	"context"
	"errors"
	"fmt"

	"github.com/echoman/robots-in-go/pkg/model"
)

// ErrUnknownAction is returned for an action other than sign or process.
var ErrUnknownAction = errors.New("unknown robot action")

// Robot acts on behalf of one account at one vendor.
type Robot interface {
	// BackgroundSign performs the daily sign-in
	BackgroundSign(ctx context.Context) error

	// BackgroundProcess performs one round of periodic work
	BackgroundProcess(ctx context.Context) error
}

// Constructor builds the robot of a vendor for an account.
type Constructor func(account model.RobotAccount) (Robot, error)

// DefaultRobot is enrolled for accounts of vendors nobody registered a
// constructor for. It does nothing.
type DefaultRobot struct{}

func (DefaultRobot) BackgroundSign(context.Context) error    { return nil }
func (DefaultRobot) BackgroundProcess(context.Context) error { return nil }

// Do runs the named action on r.
func Do(ctx context.Context, r Robot, action string) error {
	switch action {
	case model.ActionSign:
		return r.BackgroundSign(ctx)
	case model.ActionProcess:
		return r.BackgroundProcess(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}
