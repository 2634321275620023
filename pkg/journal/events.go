package journal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/echoman/robots-in-go/pkg/model"
)

// RunEvent represents one robot action executed by the dispatcher
type RunEvent struct {
	Run *model.Run
}

func (e RunEvent) MessageID() string {
	return "robot-" + e.Run.Action
}

func (e RunEvent) Message() string {
	key := model.RobotKey(e.Run.Vendor, e.Run.Account)
	if e.Run.Success {
		return fmt.Sprintf("%s completed %s in %s", key, e.Run.Action, e.Run.Duration())
	}
	msg := fmt.Sprintf("%s failed to %s", key, e.Run.Action)
	if e.Run.Message != "" {
		msg += ": " + e.Run.Message
	}
	return msg
}

func (e RunEvent) Severity() Severity {
	if e.Run.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e RunEvent) Facility() int {
	return FacilityDaemon
}

func (e RunEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Run.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDRobot: {
			"vendor":  e.Run.Vendor,
			"account": e.Run.Account,
		},
		SDIDAction: {
			"operation": e.Run.Action,
			"result":    result,
			"duration":  strconv.FormatInt(e.Run.Duration().Milliseconds(), 10) + "ms",
		},
	}
}

// EnrollEvent represents a (re)load of the robot registry
type EnrollEvent struct {
	Robots []string
	Errors int
}

func (e EnrollEvent) MessageID() string {
	return "robot-enroll"
}

func (e EnrollEvent) Message() string {
	msg := fmt.Sprintf("%d robots are enrolled: %s", len(e.Robots), strings.Join(e.Robots, ", "))
	if e.Errors > 0 {
		msg += fmt.Sprintf(" (%d failed)", e.Errors)
	}
	return msg
}

func (e EnrollEvent) Severity() Severity {
	if e.Errors > 0 {
		return SeverityWarning
	}
	return SeverityNotice
}

func (e EnrollEvent) Facility() int {
	return FacilityUser
}

func (e EnrollEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAction: {
			"operation": "enroll",
			"count":     strconv.Itoa(len(e.Robots)),
		},
	}
}
