// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	"github.com/ecovekt/backend/config"
	"github.com/ecovekt/backend/internal/application/adapter"
	"github.com/ecovekt/backend/internal/infra/dependency"
	"github.com/ecovekt/backend/internal/integration/kvstore"
	"github.com/ecovekt/backend/test/integration/mock"
)

// testContext holds the state of one scenario.
type testContext struct {
	uri      string
	headers  map[string]string
	client   *http.Client
	response *response
	db       *mock.Db
	timeMock *mock.Time

	accessToken   string
	currentUserID string
	lastGroupKey  string
	documentIDs   []string
}

type response struct {
	status int
	body   any
}

// suiteServer is shared by every scenario of a run.
type suiteServer struct {
	server   *httptest.Server
	injector *dependency.Injector
	timeMock *mock.Time
}

var (
	serverInit sync.Once
	suite      *suiteServer
)

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})

	ctx.AfterSuite(func() {
		if suite != nil {
			suite.server.Close()
		}
	})
}

// startServer builds the API exactly as cmd/api does, on the in-memory
// database and miniredis.
func startServer() *suiteServer {
	serverInit.Do(func() {
		_ = os.Setenv("ENV", "test")
		_ = os.Setenv("SUBMIT_RATE_LIMIT", "1000")

		testDB := mock.NewDb()
		redisClient := mock.NewRedis()
		timeMock := mock.NewTime()

		cfg := config.Load()
		injector := dependency.NewInjector(cfg, testDB.DbConn, dependency.Options{
			PendingKV: kvstore.NewRedisStore(redisClient),
			Clock:     timeMock,
			DBHealthCheck: func() bool {
				sqlDB, err := testDB.DbConn.DB()
				return err == nil && sqlDB.Ping() == nil
			},
			RedisHealthCheck: func() bool {
				return redisClient.Ping(context.Background()).Err() == nil
			},
		})

		suite = &suiteServer{
			server:   httptest.NewServer(injector.Router.Setup("test")),
			injector: injector,
			timeMock: timeMock,
		}
	})
	return suite
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	s := startServer()
	test := &testContext{
		uri:      s.server.URL,
		client:   &http.Client{Timeout: 10 * time.Second},
		db:       mock.NewDb(),
		timeMock: s.timeMock,
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)
	ctx.Given(`^the current time is "([^"]*)"$`, test.theCurrentTimeIs)

	// Identity steps
	ctx.Given(`^I am signed in as "([^"]*)"$`, test.iAmSignedInAs)
	ctx.Given(`^I am signed in as "([^"]*)" with an expired token$`, test.iAmSignedInWithAnExpiredToken)
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Data setup steps
	ctx.Given(`^the "([^"]*)" collection contains the document "([^"]*)" with fields:$`, test.theCollectionContainsTheDocument)
	ctx.Given(`^I have logged "([^"]*)" kg of "([^"]*)"$`, test.iHaveLoggedKgOf)
	ctx.Given(`^the document store is unavailable$`, test.theDocumentStoreIsUnavailable)
	ctx.Given(`^the document store is available again$`, test.theDocumentStoreIsAvailableAgain)

	// Request steps, also used to set up state under Given
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items?$`, test.theResponseFieldShouldHaveItems)
	ctx.Then(`^the response should not contain the field "([^"]*)"$`, test.theResponseShouldNotContainTheField)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) documents in the "([^"]*)" collection$`, test.theDbShouldContainDocumentsInTheCollection)
	ctx.Then(`^the db should contain (\d+) documents in "([^"]*)" with the values$`, test.theDbShouldContainDocumentsWithTheValues)
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.currentUserID = ""
	t.lastGroupKey = ""
	t.documentIDs = nil
	t.timeMock.Reset()

	if err := t.db.ClearDB(); err != nil {
		return fmt.Errorf("failed to clear database: %w", err)
	}
	if err := mock.ClearRedis(mock.NewRedis()); err != nil {
		return fmt.Errorf("failed to clear redis: %w", err)
	}
	return nil
}

func (t *testContext) tokens() adapter.TokenService {
	return suite.injector.TokenService
}
