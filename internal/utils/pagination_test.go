package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFor(t *testing.T, target string) Pagination {
	t.Helper()

	app := fiber.New()
	var got Pagination
	app.Get("/list", func(c *fiber.Ctx) error {
		got = ParsePagination(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return got
}

func TestParsePaginationDefaults(t *testing.T) {
	pg := parseFor(t, "/list")
	assert.Equal(t, Pagination{Page: 1, Limit: 20, Offset: 0}, pg)
}

func TestParsePaginationWindow(t *testing.T) {
	pg := parseFor(t, "/list?page=3&limit=50")
	assert.Equal(t, Pagination{Page: 3, Limit: 50, Offset: 100}, pg)
}

func TestParsePaginationClampsBadValues(t *testing.T) {
	pg := parseFor(t, "/list?page=-1&limit=0")
	assert.Equal(t, Pagination{Page: 1, Limit: 20, Offset: 0}, pg)

	pg = parseFor(t, "/list?page=abc&limit=xyz")
	assert.Equal(t, Pagination{Page: 1, Limit: 20, Offset: 0}, pg)
}

func TestParsePaginationCapsLimit(t *testing.T) {
	pg := parseFor(t, "/list?limit=5000")
	assert.Equal(t, maxPageSize, pg.Limit)
}
