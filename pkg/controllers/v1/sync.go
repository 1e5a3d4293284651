package v1

import (
	"net/http"
	"time"

	"github.com/envelope-ledger/backend/pkg/cloudsync"
	"github.com/envelope-ledger/backend/pkg/httputil"
	"github.com/gin-gonic/gin"
)

type SyncStatus struct {
	LastSync *time.Time `json:"lastSync"` // Export date of the last document pushed or pulled, null if never synced
}

func (co Controller) RegisterSyncRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", co.GetSyncStatus)
	r.OPTIONS("/push", httputil.OptionsPost)
	r.POST("/push", co.Push)
	r.OPTIONS("/pull", httputil.OptionsPost)
	r.POST("/pull", co.Pull)
}

// @Summary		Get sync status
// @Description	Returns when the budgets were last pushed to or pulled from the cloud
// @Tags			Sync
// @Produce		json
// @Success		200	{object}	v1.Response[v1.SyncStatus]
// @Failure		500	{object}	httputil.HTTPError
// @Router			/v1/sync [get]
func (co Controller) GetSyncStatus(c *gin.Context) {
	lastSync, err := co.Sync.LastSync(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	var s SyncStatus
	if !lastSync.IsZero() {
		s.LastSync = &lastSync
	}

	respond(c, http.StatusOK, s)
}

// @Summary		Push backup
// @Description	Uploads the backup of all budgets to the remote
// @Tags			Sync
// @Produce		json
// @Success		200	{object}	v1.Response[v1.SyncStatus]
// @Failure		500	{object}	httputil.HTTPError
// @Router			/v1/sync/push [post]
func (co Controller) Push(c *gin.Context) {
	pushed, err := co.Sync.Push(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, SyncStatus{LastSync: &pushed})
}

// @Summary		Pull backup
// @Description	Imports the remote backup. With onlyNewer=true, the backup is only imported if it was written after the last sync
// @Tags			Sync
// @Produce		json
// @Success		200	{object}	v1.Response[cloudsync.PullResult]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			onlyNewer	query	bool	false	"Only import a backup that is newer than the last sync"
// @Router			/v1/sync/pull [post]
func (co Controller) Pull(c *gin.Context) {
	onlyNewer, err := httputil.QueryBool(c, "onlyNewer")
	if err != nil {
		badRequest(c, err)
		return
	}

	var result cloudsync.PullResult
	if onlyNewer {
		result, err = co.Sync.PullIfNewer(c.Request.Context())
	} else {
		result, err = co.Sync.Pull(c.Request.Context())
	}

	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, result)
}
