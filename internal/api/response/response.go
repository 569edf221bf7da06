package response

import "github.com/gofiber/fiber/v2"

// Pagination describes page metadata attached to list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Envelope is the uniform response body for every endpoint.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// NewPagination computes page metadata from a page/perPage/total triple.
func NewPagination(page, perPage int, total int64) *Pagination {
	if perPage <= 0 {
		perPage = 1
	}
	totalPages := int(total) / perPage
	if int(total)%perPage != 0 {
		totalPages++
	}
	return &Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// JSON writes the envelope with the given status.
func JSON(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Envelope{
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// Paginated writes a list envelope including pagination metadata.
func Paginated(c *fiber.Ctx, status int, message string, data interface{}, pagination *Pagination) error {
	return c.Status(status).JSON(Envelope{
		StatusCode: status,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	})
}
