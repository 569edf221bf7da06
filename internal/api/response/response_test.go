package response

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)
	require.Equal(t, 2, p.Page)
	require.Equal(t, 20, p.PerPage)
	require.Equal(t, int64(45), p.Total)
	require.Equal(t, 3, p.TotalPages)
}

func TestNewPaginationExactFit(t *testing.T) {
	p := NewPagination(1, 10, 30)
	require.Equal(t, 3, p.TotalPages)
}

func TestNewPaginationEmpty(t *testing.T) {
	p := NewPagination(1, 10, 0)
	require.Equal(t, 0, p.TotalPages)
}

func TestNewPaginationGuardsZeroPerPage(t *testing.T) {
	p := NewPagination(1, 0, 5)
	require.Equal(t, 5, p.TotalPages)
}
