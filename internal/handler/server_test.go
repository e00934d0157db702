package handler

import (
	"database/sql"
	"net/http"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/emoji-explainer/internal/repository"
	"github.com/iliyamo/emoji-explainer/internal/service"
)

const (
	qSymbolByExplanation = "SELECT e.symbol FROM explanations x JOIN emojis e ON e.id=x.emoji_id WHERE x.id=? LIMIT 1"
	qDeleteExplanation   = "DELETE FROM explanations WHERE id=?"
)

func newServerEnv(t *testing.T) (*ServerHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	explainer := service.NewExplainer(repository.NewEmojiRepo(db), stubProvider{}, nil)
	return NewServerHandler(service.NewResourceManager(), explainer), mock
}

func TestUpdateResourcesAppliesIncrements(t *testing.T) {
	h, _ := newServerEnv(t)

	c, rec := jsonCtx(http.MethodPatch, "/api/server/update",
		`{"cpu_allocation_increment":10,"ram_allocation_increment":5,"disk_space_allocation_increment":20}`)
	require.NoError(t, h.UpdateResources(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(110), body["cpu_updated_allocation"])
	assert.Equal(t, float64(45), body["ram_updated_allocation"])
	assert.Equal(t, float64(220), body["disk_space_updated_allocation"])
	assert.Equal(t, "Server resources successfully updated.", body["message"])
}

func TestUpdateResourcesAccumulates(t *testing.T) {
	h, _ := newServerEnv(t)

	c, _ := jsonCtx(http.MethodPatch, "/api/server/update", `{"cpu_allocation_increment":10}`)
	require.NoError(t, h.UpdateResources(c))

	c, rec := jsonCtx(http.MethodPatch, "/api/server/update", `{"cpu_allocation_increment":-30}`)
	require.NoError(t, h.UpdateResources(c))

	assert.Equal(t, float64(80), decodeBody(t, rec)["cpu_updated_allocation"])
}

func TestAllocationsReflectUpdates(t *testing.T) {
	h, _ := newServerEnv(t)

	c, rec := jsonCtx(http.MethodGet, "/api/server/allocations", "")
	require.NoError(t, h.Allocations(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(100), body["cpu_allocation"])
	assert.Equal(t, float64(40), body["ram_allocation"])
	assert.Equal(t, float64(200), body["disk_space_allocation"])

	c, _ = jsonCtx(http.MethodPatch, "/api/server/update", `{"ram_allocation_increment":8}`)
	require.NoError(t, h.UpdateResources(c))

	c, rec = jsonCtx(http.MethodGet, "/api/server/allocations", "")
	require.NoError(t, h.Allocations(c))
	assert.Equal(t, float64(48), decodeBody(t, rec)["ram_allocation"])
}

func TestDeleteResourceRequiresNumericID(t *testing.T) {
	h, _ := newServerEnv(t)

	for _, id := range []string{"", "abc", "0", "-3"} {
		c, rec := jsonCtx(http.MethodDelete, "/api/server/resource?resource_id="+id, "")
		require.NoError(t, h.DeleteResource(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "resource_id %q", id)
	}
}

func TestDeleteResourceUnknownID(t *testing.T) {
	h, mock := newServerEnv(t)

	mock.ExpectQuery(qSymbolByExplanation).WithArgs(uint64(42)).
		WillReturnError(sql.ErrNoRows)

	c, rec := jsonCtx(http.MethodDelete, "/api/server/resource?resource_id=42", "")
	require.NoError(t, h.DeleteResource(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteResourceRemovesExplanation(t *testing.T) {
	h, mock := newServerEnv(t)

	mock.ExpectQuery(qSymbolByExplanation).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"symbol"}).AddRow("🙂"))
	mock.ExpectExec(qDeleteExplanation).WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := jsonCtx(http.MethodDelete, "/api/server/resource?resource_id=7", "")
	require.NoError(t, h.DeleteResource(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Resource allocation deleted successfully.", decodeBody(t, rec)["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
