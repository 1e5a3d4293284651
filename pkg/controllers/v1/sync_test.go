package v1_test

import (
	"context"
	"net/http"
	"sync"

	"github.com/envelope-ledger/backend/pkg/cloudsync"
	v1 "github.com/envelope-ledger/backend/pkg/controllers/v1"
	"github.com/envelope-ledger/backend/test"
	"github.com/gin-gonic/gin"
)

type memoryRemote struct {
	mu   sync.Mutex
	data []byte
}

func (m *memoryRemote) Read(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, cloudsync.ErrNoRemoteBackup
	}
	return m.data, nil
}

func (m *memoryRemote) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = data
	return nil
}

// withSync registers the routes again with cloud sync enabled.
func (suite *TestSuiteStandard) withSync() *memoryRemote {
	remote := &memoryRemote{}
	suite.controller.Sync = cloudsync.NewSyncer(suite.db, suite.controller.Backup, remote)

	suite.router = gin.New()
	suite.controller.RegisterRoutes(suite.router.Group("/v1"))
	return remote
}

func (suite *TestSuiteStandard) TestSyncPullWithoutBackup() {
	suite.withSync()

	r := suite.request(http.MethodPost, "/sync/pull", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, r)
}

func (suite *TestSuiteStandard) TestSyncPushPull() {
	remote := suite.withSync()

	r := suite.request(http.MethodGet, "/sync", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var status v1.Response[v1.SyncStatus]
	test.DecodeResponse(suite.T(), r, &status)
	suite.Assert().Nil(status.Data.LastSync)

	envelope := suite.createEnvelope("Groceries", 0)

	r = suite.request(http.MethodPost, "/sync/push", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)
	suite.Assert().NotEmpty(remote.data)

	test.DecodeResponse(suite.T(), r, &status)
	suite.Require().NotNil(status.Data.LastSync)

	// The pushed document is not newer than the last sync
	r = suite.request(http.MethodPost, "/sync/pull?onlyNewer=true", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var pulled v1.Response[cloudsync.PullResult]
	test.DecodeResponse(suite.T(), r, &pulled)
	suite.Assert().False(pulled.Data.Imported)

	r = suite.request(http.MethodDelete, "/envelopes/"+envelope.ID, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, r)

	r = suite.request(http.MethodPost, "/sync/pull", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)
	test.DecodeResponse(suite.T(), r, &pulled)
	suite.Assert().True(pulled.Data.Imported)

	r = suite.request(http.MethodGet, "/envelopes/"+envelope.ID, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)
}
