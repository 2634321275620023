package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cucumber/godog"

	"github.com/echoman/robots-in-go/pkg/model"
	"github.com/echoman/robots-in-go/pkg/server/middleware"
	"github.com/echoman/robots-in-go/pkg/storage"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	ctx          context.Context
	response     *http.Response
	responseBody []byte
	authToken    string
	found        bool
	affected     int64
	keyword      *model.Keyword
	task         *model.SendTask
	robots       map[string]*countingRobot
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:     tc,
		ctx:    context.Background(),
		robots: make(map[string]*countingRobot),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset()
	})

	// Storage steps
	sc.Step(`^the keyword table is empty$`, s.theKeywordTableIsEmpty)
	sc.Step(`^I check whether keyword "([^"]*)" exists$`, s.iCheckWhetherKeywordExists)
	sc.Step(`^it should (not )?exist$`, s.itShouldExist)
	sc.Step(`^I save keyword "([^"]*)"$`, s.iSaveKeyword)
	sc.Step(`^(\d+) rows? should have been affected$`, s.rowsShouldHaveBeenAffected)
	sc.Step(`^I load keyword "([^"]*)"$`, s.iLoadKeyword)
	sc.Step(`^the loaded keyword should have del_flag (\d+)$`, s.theLoadedKeywordShouldHaveDelFlag)
	sc.Step(`^I run "([^"]*)" with "([^"]*)"$`, s.iRunWith)
	sc.Step(`^I queue a task "([^"]*)" for keyword "([^"]*)"$`, s.iQueueATask)
	sc.Step(`^I claim the next task$`, s.iClaimTheNextTask)
	sc.Step(`^the claimed task should have content "([^"]*)"$`, s.theClaimedTaskShouldHaveContent)
	sc.Step(`^there should be no task to claim$`, s.thereShouldBeNoTaskToClaim)

	// API steps
	sc.Step(`^a robot "([^"]*)" is enrolled at "([^"]*)"$`, s.aRobotIsEnrolled)
	sc.Step(`^I am authenticated as "([^"]*)"$`, s.iAmAuthenticatedAs)
	sc.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, s.iSendARequestTo)
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^robot "([^"]*)" at "([^"]*)" should have signed (\d+) times?$`, s.robotShouldHaveSigned)
	sc.Step(`^the journal should list (\d+) runs?$`, s.theJournalShouldList)
}

// Storage steps

func (s *StepsContext) theKeywordTableIsEmpty() error {
	return s.tc.DB.Exec("DELETE FROM robot_keyword").Error
}

func (s *StepsContext) iCheckWhetherKeywordExists(keyword string) (err error) {
	s.found, err = s.tc.Dao.Exist(s.ctx, &model.Keyword{FansKeywords: keyword})
	return err
}

func (s *StepsContext) itShouldExist(not string) error {
	if want := not == ""; s.found != want {
		return fmt.Errorf("expected exist=%v, got %v", want, s.found)
	}
	return nil
}

func (s *StepsContext) iSaveKeyword(keyword string) (err error) {
	s.affected, err = s.tc.Dao.Save(s.ctx, &model.Keyword{FansKeywords: keyword})
	return err
}

func (s *StepsContext) rowsShouldHaveBeenAffected(n int) error {
	if s.affected != int64(n) {
		return fmt.Errorf("expected %d affected rows, got %d", n, s.affected)
	}
	return nil
}

func (s *StepsContext) iLoadKeyword(keyword string) (err error) {
	s.keyword, err = storage.GetBean[model.Keyword](s.ctx, s.tc.Dao,
		"SELECT * FROM robot_keyword WHERE fans_keywords=?", keyword)
	return err
}

func (s *StepsContext) theLoadedKeywordShouldHaveDelFlag(flag int) error {
	if s.keyword == nil {
		return fmt.Errorf("no keyword loaded")
	}
	if s.keyword.DelFlag != flag {
		return fmt.Errorf("expected del_flag %d, got %d", flag, s.keyword.DelFlag)
	}
	return nil
}

func (s *StepsContext) iRunWith(statement, param string) (err error) {
	s.affected, err = s.tc.Dao.Update(s.ctx, statement, param)
	return err
}

func (s *StepsContext) iQueueATask(content, keyword string) error {
	_, err := s.tc.Queue.Enqueue(s.ctx, keyword, content)
	return err
}

func (s *StepsContext) iClaimTheNextTask() (err error) {
	s.task, err = s.tc.Queue.Next(s.ctx)
	return err
}

func (s *StepsContext) theClaimedTaskShouldHaveContent(content string) error {
	if s.task == nil {
		return fmt.Errorf("no task was claimed")
	}
	if s.task.Content != content {
		return fmt.Errorf("expected content %q, got %q", content, s.task.Content)
	}
	return nil
}

func (s *StepsContext) thereShouldBeNoTaskToClaim() error {
	task, err := s.tc.Queue.Next(s.ctx)
	if err != nil {
		return err
	}
	if task != nil {
		return fmt.Errorf("expected an empty queue, claimed task %d", task.ID)
	}
	return nil
}

// API steps

func (s *StepsContext) aRobotIsEnrolled(owner, vendor string) error {
	r := &countingRobot{}
	s.robots[model.RobotKey(vendor, owner)] = r
	s.tc.Registry.Enroll(vendor, owner, r)
	return nil
}

func (s *StepsContext) iAmAuthenticatedAs(subject string) (err error) {
	s.authToken, err = middleware.NewJWTAuthenticator([]byte(apiSecret)).Issue(subject, time.Minute)
	return err
}

func (s *StepsContext) iSendARequestTo(method, path string) error {
	req, err := http.NewRequest(method, s.tc.ServerURL+path, nil)
	if err != nil {
		return err
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) robotShouldHaveSigned(owner, vendor string, times int) error {
	r, ok := s.robots[model.RobotKey(vendor, owner)]
	if !ok {
		return fmt.Errorf("robot %s was not enrolled", model.RobotKey(vendor, owner))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.signs != times {
		return fmt.Errorf("expected %d signs, got %d", times, r.signs)
	}
	return nil
}

func (s *StepsContext) theJournalShouldList(n int) error {
	var runs []json.RawMessage
	if err := json.Unmarshal(s.responseBody, &runs); err != nil {
		return fmt.Errorf("failed to parse runs: %w", err)
	}
	if len(runs) != n {
		return fmt.Errorf("expected %d runs, got %d", n, len(runs))
	}
	return nil
}
