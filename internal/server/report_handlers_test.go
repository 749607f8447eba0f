package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusboard/internal/models"
	"campusboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReportHandler(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	reporter := createUser(t, s.db, "reporter", models.RoleStudent)
	author := createUser(t, s.db, "author", models.RoleStudent)
	category := createCategory(t, s.db, "general")
	post := createPost(t, s.db, author.ID, category.ID, "Spammy post")

	app := fiber.New()
	app.Post("/reports", asUser(reporter.ID), s.CreateReport)

	body := map[string]any{
		"target_type": "post",
		"target_id":   post.ID,
		"reason":      "It's an ad",
	}

	t.Run("success", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/reports", body))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		require.Equal(t, http.StatusCreated, resp.StatusCode)
		report := decodeBody[models.Report](t, resp)
		assert.Equal(t, reporter.ID, report.ReporterID)
		assert.False(t, report.Resolved)
	})

	t.Run("duplicate is a conflict", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/reports", body))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("unknown target type rejected", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/reports", map[string]any{
			"target_type": "user", "target_id": author.ID, "reason": "nope",
		}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing target rejected", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/reports", map[string]any{
			"target_type": "comment", "target_id": 9999, "reason": "gone",
		}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestReportQueueHandlers(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	admin := createUser(t, s.db, "admin", models.RoleAdmin)
	reporter := createUser(t, s.db, "reporter", models.RoleStudent)
	author := createUser(t, s.db, "author", models.RoleStudent)
	category := createCategory(t, s.db, "general")
	post := createPost(t, s.db, author.ID, category.ID, "Reported post")

	report := &models.Report{
		ReporterID: reporter.ID,
		TargetType: models.ReportTargetPost,
		TargetID:   post.ID,
		Reason:     "spam",
	}
	require.NoError(t, s.db.Create(report).Error)

	app := fiber.New()
	app.Get("/admin/reports", asUser(admin.ID), s.GetReports)
	app.Post("/admin/reports/:id/resolve", asUser(admin.ID), s.ResolveReport)
	app.Post("/admin/reports/:id/reopen", asUser(admin.ID), s.ReopenReport)

	t.Run("list unresolved", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/reports?resolved=false", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		page := decodeBody[service.ReportPage](t, resp)
		require.Len(t, page.Reports, 1)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("resolve then reopen", func(t *testing.T) {
		url := fmt.Sprintf("/admin/reports/%d/resolve", report.ID)
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, url, nil))
		require.NoError(t, err)
		resolved := decodeBody[models.Report](t, resp)
		_ = resp.Body.Close()
		assert.True(t, resolved.Resolved)

		url = fmt.Sprintf("/admin/reports/%d/reopen", report.ID)
		resp, err = app.Test(httptest.NewRequest(http.MethodPost, url, nil))
		require.NoError(t, err)
		reopened := decodeBody[models.Report](t, resp)
		_ = resp.Body.Close()
		assert.False(t, reopened.Resolved)
	})

	t.Run("student cannot list the queue", func(t *testing.T) {
		studentApp := fiber.New()
		studentApp.Get("/admin/reports", asUser(reporter.ID), s.GetReports)
		resp, err := studentApp.Test(httptest.NewRequest(http.MethodGet, "/admin/reports", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
