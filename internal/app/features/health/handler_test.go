package health_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/gatherhub/internal/app/features/health"
	"github.com/dalemusser/gatherhub/internal/testutil"
	"go.uber.org/zap"
)

func TestServe_Healthy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := health.NewHandler(db.Client(), zap.NewNop())
	router := health.Routes(h)

	req := testutil.NewRequest(http.MethodGet, "/")
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.Status != "ok" || resp.Database != "connected" {
		t.Errorf("unexpected health response: %+v", resp)
	}
}
