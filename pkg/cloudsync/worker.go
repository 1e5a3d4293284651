package cloudsync

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Worker pushes the backup for each sync request it is handed.
type Worker struct {
	syncer *Syncer
}

func NewWorker(s *Syncer) *Worker {
	return &Worker{syncer: s}
}

// HandleSyncRequest pushes the current state. Requests issued before the
// last sync are already covered by it and are skipped.
func (w *Worker) HandleSyncRequest(ctx context.Context, request SyncRequest) error {
	last, err := w.syncer.LastSync(ctx)
	if err != nil {
		return err
	}

	if !request.Timestamp.IsZero() && request.Timestamp.Before(last) {
		log.Debug().Str("reason", request.Reason).Msg("Sync request already covered")
		return nil
	}

	_, err = w.syncer.Push(ctx)
	return err
}

var mutatingMethods = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

// Notify publishes a sync request after every successful mutating request.
// Publishing failures are logged and do not affect the response.
func Notify(p Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !slices.Contains(mutatingMethods, c.Request.Method) || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		reason := c.Request.Method + " " + c.FullPath()
		if err := p.PublishSyncRequest(c.Request.Context(), reason); err != nil {
			log.Warn().Err(err).Str("reason", reason).Msg("Could not publish sync request")
		}
	}
}
