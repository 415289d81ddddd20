package internal

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"plating-line-backend/config"
	"plating-line-backend/internal/api"
	"plating-line-backend/internal/db"
	"plating-line-backend/internal/linefile"
	"plating-line-backend/internal/simulation"
	"plating-line-backend/internal/store"
)

// TestProjectLifecycle drives a project through the HTTP API end to end:
// configure the line, parameters and goal, preview, run, and read the
// stored result back.
func TestProjectLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 1. In-memory SQLite database with the schema applied.
	testDB, err := gorm.Open(sqlite.Open("file:lifecycle?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(testDB))

	// 2. Real engine and router.
	engine := simulation.NewEngine(simulation.DefaultOptions(), zap.NewNop())
	router := api.NewRouter(store.NewGormStore(testDB), engine, config.ServerConfig{
		RateLimitPerSec: 50,
		RateLimitBurst:  50,
		CacheTTLSeconds: 60,
	}, zap.NewNop())

	call := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, "/api/projects/demo"+path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	file, err := linefile.Load("linefile/testdata/nickel.yaml")
	require.NoError(t, err)

	// 3. An unconfigured project previews as invalid, not as an error.
	w := call(http.MethodGet, "/simulation/quick", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var preview simulation.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	assert.Contains(t, preview.Error, "process map is empty")

	// 4. Configure the project.
	require.Equal(t, http.StatusOK, call(http.MethodPut, "/line", file.Line).Code)
	require.Equal(t, http.StatusOK, call(http.MethodPut, "/simulation/parameters", file.Parameters).Code)
	require.Equal(t, http.StatusOK, call(http.MethodPut, "/production-goal", file.Goal).Code)

	// 5. The cached invalid preview was dropped by the writes.
	w = call(http.MethodGet, "/simulation/quick", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	assert.Empty(t, preview.Error)
	assert.True(t, preview.Feasible)

	// 6. A full run is stored and listed.
	w = call(http.MethodPost, "/simulation/run", map[string]string{"name": "Lifecycle"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var run simulation.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.True(t, run.Feasible)
	assert.Equal(t, "Lifecycle", run.Name)
	assert.Equal(t, 3, run.RacksPerSuperCycle)
	assert.InDelta(t, run.SuperCycleTime/3, run.CycleTime, 1e-9)
	assert.NotEmpty(t, run.RecipeResults)

	w = call(http.MethodGet, "/simulation/results", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var results []simulation.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, run.RunID, results[0].RunID)
	assert.InDelta(t, run.PartsPerDay, results[0].PartsPerDay, 1e-9)
	assert.Len(t, results[0].StationUtilization, len(run.StationUtilization))

	// 7. The run recorded the hoist count it calculated.
	w = call(http.MethodGet, "/simulation/parameters", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var params map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &params))
	assert.EqualValues(t, run.CalculatedHoistCount, params["calculated_hoist_count"])
}
