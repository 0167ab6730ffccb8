// History HTTP handler.
//
// Exposes GET /history: a newest-first page of the append-only request log.
// The response is a bare JSON array of records (no pagination envelope) to
// keep the read side trivially consumable; limit/offset live in the query
// string and are clamped server-side. Conditional requests are supported via
// a weak ETag derived from the record count and the newest timestamp.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-text-gateway/internal/utils"
)

// ListHistory godoc
// @ID          listHistory
// @Summary     List recent requests
// @Description Returns up to `limit` history records, newest first. Limits outside [1,100] are clamped; the default is 10.
// @Tags        History
// @Produce     json
//
// @Param       Authorization  header  string  false "Bearer token (required when the gate is configured)"
// @Param       limit          query   int     false "Maximum records to return"  minimum(1) maximum(100) default(10)
// @Param       offset         query   int     false "Records to skip"            minimum(0) default(0)
//
// @Success     200  {array}   domain.Record
// @Success     304  "Not modified"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /history [get]
func (h *Handlers) ListHistory(c *gin.Context) {
	ctx := c.Request.Context()

	if !h.gate.Authorize(credential(c)) {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid or missing bearer token")
		return
	}

	// ETag pre-check (best effort).
	if count, maxTS, err := h.historySvc.Stats(ctx); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.Unix()
		}
		etag := fmt.Sprintf(`W/"history:%d:%d"`, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	limit := utils.AtoiDefault(c.Query("limit"), 0)
	offset := utils.AtoiDefault(c.Query("offset"), 0)

	items, err := h.historySvc.List(ctx, limit, offset)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusOK, items)
}
