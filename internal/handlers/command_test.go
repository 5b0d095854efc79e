package handlers

import (
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/taskbot/internal/models"
	"github.com/yukikurage/taskbot/internal/repository"
	"github.com/yukikurage/taskbot/internal/services"
)

type countingRefresher struct {
	calls int32
}

func (r *countingRefresher) Refresh() {
	atomic.AddInt32(&r.calls, 1)
}

func (r *countingRefresher) count() int {
	return int(atomic.LoadInt32(&r.calls))
}

type brokenStore struct{}

func (brokenStore) Create(string, string) (*models.Task, error) { return nil, errors.New("disk gone") }
func (brokenStore) List() ([]models.Task, error)                 { return nil, errors.New("disk gone") }
func (brokenStore) Complete(int) (*models.Task, bool, error) {
	return nil, false, errors.New("disk gone")
}

type panickyStore struct{ brokenStore }

func (panickyStore) List() ([]models.Task, error) { panic("unexpected") }

// CommandDispatcherTestSuite defines the test suite for CommandDispatcher
type CommandDispatcherTestSuite struct {
	suite.Suite
	tasks      *services.TaskService
	refresher  *countingRefresher
	dispatcher *CommandDispatcher
}

// SetupTest runs before each test
func (suite *CommandDispatcherTestSuite) SetupTest() {
	logger, _ := test.NewNullLogger()
	path := filepath.Join(suite.T().TempDir(), "tasks.json")

	suite.tasks = services.NewTaskService(repository.NewTaskRepository(path))
	suite.refresher = &countingRefresher{}
	suite.dispatcher = NewCommandDispatcher(suite.tasks, suite.refresher, logger)
}

func (suite *CommandDispatcherTestSuite) dispatch(sub string, options map[string]interface{}) string {
	return suite.dispatcher.Dispatch(Command{
		Name:       CommandName,
		Subcommand: sub,
		Options:    options,
		User:       "alice",
	})
}

// TestCreate_Success tests creating a task on an empty store
func (suite *CommandDispatcherTestSuite) TestCreate_Success() {
	reply := suite.dispatch(SubcommandCreate, map[string]interface{}{OptionTitle: "Fix bug"})

	suite.Equal("✅ Task created: #1 - Fix bug", reply)
	suite.Equal(1, suite.refresher.count())

	tasks, err := suite.tasks.List()
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal("alice", tasks[0].CreatedBy)
	suite.Equal(models.TaskStatusTodo, tasks[0].Status)
}

// TestList_Empty tests the empty-state reply
func (suite *CommandDispatcherTestSuite) TestList_Empty() {
	reply := suite.dispatch(SubcommandList, nil)

	suite.Equal(ReplyEmptyList, reply)
	suite.Equal(0, suite.refresher.count())
}

// TestList_AfterCompletion tests ordering and status after create, create, complete
func (suite *CommandDispatcherTestSuite) TestList_AfterCompletion() {
	suite.dispatch(SubcommandCreate, map[string]interface{}{OptionTitle: "A"})
	suite.dispatch(SubcommandCreate, map[string]interface{}{OptionTitle: "B"})
	suite.dispatch(SubcommandComplete, map[string]interface{}{OptionID: int64(1)})

	reply := suite.dispatch(SubcommandList, nil)

	suite.Equal("📋 Tasks:\n#1 [done] A (by alice)\n#2 [todo] B (by alice)", reply)
	suite.Equal(3, suite.refresher.count())
}

// TestComplete_Success tests completing an existing task
func (suite *CommandDispatcherTestSuite) TestComplete_Success() {
	suite.dispatch(SubcommandCreate, map[string]interface{}{OptionTitle: "A"})

	reply := suite.dispatch(SubcommandComplete, map[string]interface{}{OptionID: float64(1)})

	suite.Equal("✅ Task #1 marked as done.", reply)
	suite.Equal(2, suite.refresher.count())
}

// TestComplete_NotFound tests completing a missing task
func (suite *CommandDispatcherTestSuite) TestComplete_NotFound() {
	reply := suite.dispatch(SubcommandComplete, map[string]interface{}{OptionID: 9})

	suite.Equal("❌ Task #9 not found.", reply)
	suite.Equal(0, suite.refresher.count())
}

// TestComplete_InvalidID tests a non-integer id argument
func (suite *CommandDispatcherTestSuite) TestComplete_InvalidID() {
	suite.Equal(ReplyError, suite.dispatch(SubcommandComplete, map[string]interface{}{OptionID: "one"}))
	suite.Equal(ReplyError, suite.dispatch(SubcommandComplete, map[string]interface{}{OptionID: 1.5}))
	suite.Equal(ReplyError, suite.dispatch(SubcommandComplete, nil))
}

// TestUnknown tests unknown subcommands and command names
func (suite *CommandDispatcherTestSuite) TestUnknown() {
	suite.Equal(ReplyUnknownCommand, suite.dispatch("delete", nil))

	reply := suite.dispatcher.Dispatch(Command{Name: "other", Subcommand: SubcommandList})
	suite.Equal(ReplyUnknownCommand, reply)
}

// TestStorageError tests that storage failures become the generic reply
func (suite *CommandDispatcherTestSuite) TestStorageError() {
	logger, hook := test.NewNullLogger()
	dispatcher := NewCommandDispatcher(brokenStore{}, suite.refresher, logger)

	for _, cmd := range []Command{
		{Name: CommandName, Subcommand: SubcommandCreate, Options: map[string]interface{}{OptionTitle: "A"}},
		{Name: CommandName, Subcommand: SubcommandList},
		{Name: CommandName, Subcommand: SubcommandComplete, Options: map[string]interface{}{OptionID: 1}},
	} {
		suite.Equal(ReplyError, dispatcher.Dispatch(cmd))
	}

	suite.Equal(0, suite.refresher.count())
	suite.Len(hook.AllEntries(), 3)
}

// TestPanicRecovered tests that a panic still yields a reply
func (suite *CommandDispatcherTestSuite) TestPanicRecovered() {
	logger, _ := test.NewNullLogger()
	dispatcher := NewCommandDispatcher(panickyStore{}, nil, logger)

	reply := dispatcher.Dispatch(Command{Name: CommandName, Subcommand: SubcommandList})
	suite.Equal(ReplyError, reply)
}

// TestCommandDispatcherTestSuite runs the test suite
func TestCommandDispatcherTestSuite(t *testing.T) {
	suite.Run(t, new(CommandDispatcherTestSuite))
}

func TestFormatTaskList(t *testing.T) {
	assert.Equal(t, ReplyEmptyList, FormatTaskList(nil))
	assert.Equal(t, "📋 Tasks:\n#3 [todo] Ship it (by bob)", FormatTaskList([]models.Task{
		{ID: 3, Title: "Ship it", Status: models.TaskStatusTodo, CreatedBy: "bob"},
	}))
}
